package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/repository"
	"github.com/happymap/happymap/backend/go-services/internal/upload"
	"github.com/happymap/happymap/backend/go-services/pkg/metrics"
)

var ErrNotFound = errors.New("orphanage not found")

// ValidationError reports a rejected create request. Nothing is persisted
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateParams carries the raw scalar fields of a multipart create request.
// Latitude/longitude arrive as form strings and are validated here.
type CreateParams struct {
	Name           string
	Latitude       string
	Longitude      string
	About          string
	Instructions   string
	OpeningHours   string
	OpenOnWeekends string
}

// Service exposes the listing operations consumed by the HTTP handler.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates params, pairs the already-stored files as the listing's
// images (upload order preserved) and inserts exactly once. An over-length
// `about` is accepted: its bound is a client-side hint, not a store
// constraint.
func (s *Service) Create(ctx context.Context, p CreateParams, files []upload.StoredFile) (*orphanage.Orphanage, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	lat, err := parseCoord("latitude", p.Latitude)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoord("longitude", p.Longitude)
	if err != nil {
		return nil, err
	}

	images := make([]orphanage.Image, 0, len(files))
	for _, f := range files {
		images = append(images, orphanage.Image{ID: uuid.NewString(), URL: f.URL})
	}

	o := &orphanage.Orphanage{
		Name:           strings.TrimSpace(p.Name),
		Latitude:       lat,
		Longitude:      lng,
		About:          p.About,
		Instructions:   p.Instructions,
		OpeningHours:   p.OpeningHours,
		OpenOnWeekends: p.OpenOnWeekends == "true",
		Images:         images,
	}
	if _, err := s.repo.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("insert orphanage: %w", err)
	}
	metrics.OrphanagesCreated.Inc()
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]*orphanage.Orphanage, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*orphanage.Orphanage, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func parseCoord(field, raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}
	return v, nil
}
