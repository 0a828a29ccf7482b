package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/cache"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/repository"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/service"
	"github.com/happymap/happymap/backend/go-services/internal/storage"
)

func newTestServer(t *testing.T, listCache *cache.ListCache) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := storage.NewLocalStore(t.TempDir(), "http://localhost:3333")
	require.NoError(t, err)

	h := New(service.New(repository.NewMemoryRepo()), listCache)
	r := gin.New()
	h.Register(r, blobs)
	return r
}

type formFile struct{ name, content string }

func createRequest(t *testing.T, fields map[string]string, files []formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/orphanages", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"name":             "Lar Feliz",
		"latitude":         "-25.09",
		"longitude":        "-50.18",
		"about":            "a small home",
		"instructions":     "ring the bell",
		"opening_hours":    "8h-18h",
		"open_on_weekends": "true",
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	r := newTestServer(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createRequest(t, validFields(), []formFile{
		{"front.png", "png-a"}, {"garden.png", "png-b"},
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var created orphanage.Orphanage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Images, 2)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanage/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got orphanage.Orphanage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "Lar Feliz", got.Name)
	require.Equal(t, -25.09, got.Latitude)
	require.Equal(t, -50.18, got.Longitude)
	require.Equal(t, "8h-18h", got.OpeningHours)
	require.True(t, got.OpenOnWeekends)
	require.Len(t, got.Images, 2)
	// upload order preserved
	require.Equal(t, created.Images[0].URL, got.Images[0].URL)
	require.Equal(t, created.Images[1].URL, got.Images[1].URL)
}

func TestListEmptyThenOne(t *testing.T) {
	r := newTestServer(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanages", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var views []orphanage.ListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Empty(t, views)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, createRequest(t, validFields(), nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created orphanage.Orphanage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanages", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, created.ID, views[0].ID)
}

func TestCreateValidationFailure(t *testing.T) {
	r := newTestServer(t, nil)

	fields := validFields()
	delete(fields, "latitude")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, createRequest(t, fields, nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// nothing persisted
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanages", nil))
	var views []orphanage.ListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Empty(t, views)
}

func TestGetUnknownIDReturns404(t *testing.T) {
	r := newTestServer(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanage/never-issued", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsesCacheAndCreateInvalidates(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	listCache := cache.NewListCache(client, 30*time.Second)

	r := newTestServer(t, listCache)

	// first list primes the cache
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanages", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, m.Exists("orphanages:list"))

	// create invalidates
	w = httptest.NewRecorder()
	r.ServeHTTP(w, createRequest(t, validFields(), nil))
	require.Equal(t, http.StatusCreated, w.Code)
	require.False(t, m.Exists("orphanages:list"))

	// next list sees the new record and re-primes
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orphanages", nil))
	var views []orphanage.ListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.True(t, m.Exists("orphanages:list"))
}
