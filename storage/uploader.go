package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

// ObjectStore writes immutable objects and exposes them under a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	GetPublicURL(key string) string
}

// SeasonArchiveKey names the snapshot object of a season. token keeps two
// archives taken in the same second apart.
func SeasonArchiveKey(seasonID int, at time.Time, token string) string {
	return fmt.Sprintf("archives/seasons/%d/%s-%s.json", seasonID, at.UTC().Format("20060102T150405Z"), token)
}
