package happyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
)

// ErrNotFound is returned by GetOrphanage when the id matches no record.
var ErrNotFound = errors.New("orphanage not found")

// APIError is a non-2xx response from the listing API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the listing API. Construct one explicitly and pass it to
// whatever needs it; there is no package-level shared instance.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (timeouts, transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ImagePart is one image blob to attach to a create request, in display order.
type ImagePart struct {
	Filename string
	Reader   io.Reader
}

// CreateRequest carries the scalar fields of a new listing. Latitude and
// longitude are flattened into the multipart form by CreateOrphanage.
type CreateRequest struct {
	Name           string
	Latitude       float64
	Longitude      float64
	About          string
	Instructions   string
	OpeningHours   string
	OpenOnWeekends bool
}

// CreateOrphanage submits a multipart create request and returns the created
// record with its assigned id.
func (c *Client) CreateOrphanage(ctx context.Context, cr CreateRequest, images []ImagePart) (*orphanage.Orphanage, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"name":             cr.Name,
		"latitude":         strconv.FormatFloat(cr.Latitude, 'f', -1, 64),
		"longitude":        strconv.FormatFloat(cr.Longitude, 'f', -1, 64),
		"about":            cr.About,
		"instructions":     cr.Instructions,
		"opening_hours":    cr.OpeningHours,
		"open_on_weekends": strconv.FormatBool(cr.OpenOnWeekends),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("encode field %s: %w", k, err)
		}
	}
	for _, img := range images {
		fw, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, fmt.Errorf("encode image %s: %w", img.Filename, err)
		}
		if _, err := io.Copy(fw, img.Reader); err != nil {
			return nil, fmt.Errorf("encode image %s: %w", img.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orphanages", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create orphanage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp)
	}
	var created orphanage.Orphanage
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created orphanage: %w", err)
	}
	return &created, nil
}

// ListOrphanages returns the map listing.
func (c *Client) ListOrphanages(ctx context.Context) ([]orphanage.ListView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orphanages", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list orphanages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	var views []orphanage.ListView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return views, nil
}

// GetOrphanage returns one full record, or ErrNotFound.
func (c *Client) GetOrphanage(ctx context.Context, id string) (*orphanage.Orphanage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orphanage/"+id, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get orphanage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	var o orphanage.Orphanage
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, fmt.Errorf("decode orphanage: %w", err)
	}
	return &o, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
