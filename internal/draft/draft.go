package draft

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/happymap/happymap/backend/go-services/internal/happyapi"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
)

// AboutMaxLen bounds the `about` field, matching the form's character
// counter. Enforced before submission; the server tolerates longer values.
const AboutMaxLen = 300

// ValidationError reports why a draft was rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Draft is the in-progress composition of a new listing: all scalar fields in
// one struct plus the location picker and image intake. Submit serializes it
// to a multipart create request; on any failure the draft stays unchanged so
// the user can fix and retry.
type Draft struct {
	Name           string
	About          string
	Instructions   string
	OpeningHours   string
	OpenOnWeekends bool

	Location *LocationPicker
	Images   *ImageIntake
}

// New returns an empty draft whose previews materialize under previewDir
// (OS temp dir when empty).
func New(previewDir string) *Draft {
	return &Draft{
		Location: &LocationPicker{},
		Images:   NewImageIntake(previewDir),
	}
}

// Set updates one scalar field by name, dispatch-style. Field names match the
// multipart form fields. No cross-field validation happens here; that waits
// until Submit.
func (d *Draft) Set(field, value string) error {
	switch field {
	case "name":
		d.Name = value
	case "about":
		d.About = value
	case "instructions":
		d.Instructions = value
	case "opening_hours":
		d.OpeningHours = value
	case "open_on_weekends":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: field, Reason: "must be true or false"}
		}
		d.OpenOnWeekends = b
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

func (d *Draft) validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !d.Location.HasLocation() {
		return &ValidationError{Field: "location", Reason: "pick a point on the map"}
	}
	if utf8.RuneCountInString(d.About) > AboutMaxLen {
		return &ValidationError{Field: "about", Reason: fmt.Sprintf("must be at most %d characters", AboutMaxLen)}
	}
	return nil
}

// Submit validates the draft and sends it to the listing API. A validation
// failure returns before any network traffic. The created record, with its
// assigned id, is returned on success.
func (d *Draft) Submit(ctx context.Context, api *happyapi.Client) (*orphanage.Orphanage, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	pos, _ := d.Location.Position()
	parts := make([]happyapi.ImagePart, 0, len(d.Images.Images()))
	for _, img := range d.Images.Images() {
		parts = append(parts, happyapi.ImagePart{
			Filename: img.Name,
			Reader:   bytes.NewReader(img.Data),
		})
	}

	created, err := api.CreateOrphanage(ctx, happyapi.CreateRequest{
		Name:           d.Name,
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		About:          d.About,
		Instructions:   d.Instructions,
		OpeningHours:   d.OpeningHours,
		OpenOnWeekends: d.OpenOnWeekends,
	}, parts)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Close tears the draft down, releasing every live preview.
func (d *Draft) Close() {
	d.Images.Close()
}
