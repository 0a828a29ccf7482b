package draft

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/happymap/happymap/backend/go-services/internal/happyapi"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/handler"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/repository"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/service"
	"github.com/happymap/happymap/backend/go-services/internal/storage"
)

// real listing API behind an httptest server, counting requests
func newAPIServer(t *testing.T) (*happyapi.Client, *atomic.Int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := storage.NewLocalStore(t.TempDir(), "http://localhost:3333")
	require.NoError(t, err)

	var hits atomic.Int64
	r := gin.New()
	r.Use(func(c *gin.Context) { hits.Add(1); c.Next() })
	handler.New(service.New(repository.NewMemoryRepo()), nil).Register(r, blobs)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return happyapi.NewClient(srv.URL), &hits
}

func filled(t *testing.T) *Draft {
	t.Helper()
	d := New(t.TempDir())
	require.NoError(t, d.Set("name", "Lar Feliz"))
	require.NoError(t, d.Set("about", "a small home"))
	require.NoError(t, d.Set("instructions", "ring the bell"))
	require.NoError(t, d.Set("opening_hours", "8h-18h"))
	require.NoError(t, d.Set("open_on_weekends", "true"))
	d.Location.Pick(-25.09, -50.18)
	return d
}

func TestSubmitRoundTrip(t *testing.T) {
	api, _ := newAPIServer(t)
	d := filled(t)
	defer d.Close()

	require.NoError(t, d.Images.SelectImages([]*ImageFile{img("front.png"), img("garden.png")}))

	created, err := d.Submit(context.Background(), api)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Lar Feliz", created.Name)
	require.Len(t, created.Images, 2)

	got, err := api.GetOrphanage(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, -25.09, got.Latitude)
	require.Equal(t, -50.18, got.Longitude)
	require.Equal(t, "8h-18h", got.OpeningHours)
	require.True(t, got.OpenOnWeekends)
	require.Len(t, got.Images, 2)
}

func TestSubmitWithoutLocationMakesNoNetworkCall(t *testing.T) {
	api, hits := newAPIServer(t)
	d := New(t.TempDir())
	defer d.Close()
	require.NoError(t, d.Set("name", "Lar Feliz"))

	_, err := d.Submit(context.Background(), api)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "location", verr.Field)
	require.Zero(t, hits.Load(), "validation failures must not reach the server")
}

func TestSubmitWithoutNameFails(t *testing.T) {
	api, hits := newAPIServer(t)
	d := New(t.TempDir())
	defer d.Close()
	d.Location.Pick(-25.09, -50.18)

	_, err := d.Submit(context.Background(), api)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Field)
	require.Zero(t, hits.Load())
}

func TestSubmitOverlongAboutFails(t *testing.T) {
	api, hits := newAPIServer(t)
	d := filled(t)
	defer d.Close()

	long := make([]byte, AboutMaxLen+1)
	for i := range long {
		long[i] = 'x'
	}
	require.NoError(t, d.Set("about", string(long)))

	_, err := d.Submit(context.Background(), api)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "about", verr.Field)
	require.Zero(t, hits.Load())
}

func TestFailedSubmitPreservesDraftState(t *testing.T) {
	// server that always refuses
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()
	api := happyapi.NewClient(srv.URL)

	d := filled(t)
	defer d.Close()
	require.NoError(t, d.Images.SelectImages([]*ImageFile{img("front.png")}))

	_, err := d.Submit(context.Background(), api)
	var apiErr *happyapi.APIError
	require.ErrorAs(t, err, &apiErr)

	// everything still in place for a retry
	require.Equal(t, "Lar Feliz", d.Name)
	require.True(t, d.Location.HasLocation())
	require.Len(t, d.Images.Images(), 1)
	require.Len(t, d.Images.Previews(), 1)
}

func TestSetUnknownField(t *testing.T) {
	d := New(t.TempDir())
	defer d.Close()
	require.Error(t, d.Set("favourite_color", "blue"))
}
