package upload

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/happymap/happymap/backend/go-services/internal/storage"
	"github.com/happymap/happymap/backend/go-services/pkg/metrics"
)

// FieldName is the multipart field carrying image file parts.
const FieldName = "images"

const contextKey = "upload.storedFiles"

// StoredFile describes one materialized image: where it landed in blob
// storage and what the client originally called it.
type StoredFile struct {
	Key      string
	Filename string
	URL      string
}

// Middleware materializes every `images` file part through the blob store, in
// part order, before the handler body runs. The handler reads the result with
// StoredFiles(c). A request with no file parts is valid and yields an empty
// slice; a malformed multipart body aborts with 400 before anything is
// persisted to the record store.
func Middleware(store storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil && err != http.ErrNotMultipart {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid multipart payload: %v", err)})
			return
		}

		var parts []*multipart.FileHeader
		if form != nil {
			parts = form.File[FieldName]
		}

		stored := make([]StoredFile, 0, len(parts))
		for _, fh := range parts {
			sf, err := saveOne(c, store, fh)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("storing %q failed: %v", fh.Filename, err)})
				return
			}
			metrics.ImagesStored.Inc()
			stored = append(stored, sf)
		}

		c.Set(contextKey, stored)
		c.Next()
	}
}

func saveOne(c *gin.Context, store storage.BlobStore, fh *multipart.FileHeader) (StoredFile, error) {
	f, err := fh.Open()
	if err != nil {
		return StoredFile{}, err
	}
	defer f.Close()

	key := uuid.NewString() + filepath.Ext(fh.Filename)
	url, err := store.Put(c.Request.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return StoredFile{}, err
	}
	return StoredFile{Key: key, Filename: fh.Filename, URL: url}, nil
}

// StoredFiles returns the descriptors placed by Middleware, in upload order.
func StoredFiles(c *gin.Context) []StoredFile {
	if v, ok := c.Get(contextKey); ok {
		if files, ok := v.([]StoredFile); ok {
			return files
		}
	}
	return nil
}
