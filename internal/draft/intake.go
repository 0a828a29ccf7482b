package draft

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageFile is an in-memory image blob picked for a draft. Intake operations
// identify a blob by its pointer, so the same *ImageFile handed to
// SelectImages must be handed to RemoveImage.
type ImageFile struct {
	Name string
	Data []byte
}

// Preview is a short-lived display handle for one selected blob: the blob
// materialized as a temp file a viewer can open. Every Preview must be
// released; the intake does that when the image is removed, the selection is
// replaced, or the intake is closed.
type Preview struct {
	path   string
	closed bool
}

// URL returns a file URL for the materialized preview.
func (p *Preview) URL() string { return "file://" + p.path }

// Close releases the preview. Safe to call twice.
func (p *Preview) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return os.Remove(p.path)
}

func materialize(dir string, f *ImageFile) (*Preview, error) {
	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(f.Name))
	if err := os.WriteFile(path, f.Data, 0o600); err != nil {
		return nil, fmt.Errorf("materialize preview for %s: %w", f.Name, err)
	}
	return &Preview{path: path}, nil
}

// ImageIntake holds the ordered image selection of a draft plus one preview
// per blob, order-matched. Not safe for concurrent use: a draft belongs to a
// single user interaction at a time.
type ImageIntake struct {
	dir      string
	images   []*ImageFile
	previews []*Preview
}

// NewImageIntake creates an intake that materializes previews under dir
// (or the OS temp dir when empty).
func NewImageIntake(dir string) *ImageIntake {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ImageIntake{dir: dir}
}

// SelectImages replaces the entire current selection with files, matching the
// re-selection semantics of a single file input. An empty files set is a
// no-op. Old previews are released before the new ones take their place; on a
// materialization failure the previous selection stays intact.
func (in *ImageIntake) SelectImages(files []*ImageFile) error {
	if len(files) == 0 {
		return nil
	}

	previews := make([]*Preview, 0, len(files))
	for _, f := range files {
		p, err := materialize(in.dir, f)
		if err != nil {
			for _, made := range previews {
				made.Close()
			}
			return err
		}
		previews = append(previews, p)
	}

	in.releaseAll()
	in.images = append([]*ImageFile(nil), files...)
	in.previews = previews
	return nil
}

// RemoveImage removes exactly one blob and its paired preview, preserving the
// order of the rest. Removing a blob that is not selected is a no-op.
func (in *ImageIntake) RemoveImage(f *ImageFile) {
	for i, img := range in.images {
		if img == f {
			in.previews[i].Close()
			in.images = append(in.images[:i], in.images[i+1:]...)
			in.previews = append(in.previews[:i], in.previews[i+1:]...)
			return
		}
	}
}

// Images returns the current selection in order.
func (in *ImageIntake) Images() []*ImageFile { return in.images }

// Previews returns one preview per selected blob, order-matched.
func (in *ImageIntake) Previews() []*Preview { return in.previews }

// Close releases every live preview. Call on draft teardown.
func (in *ImageIntake) Close() {
	in.releaseAll()
	in.images = nil
	in.previews = nil
}

func (in *ImageIntake) releaseAll() {
	for _, p := range in.previews {
		p.Close()
	}
}
