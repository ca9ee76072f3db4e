package photo

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("photo not found")
	ErrNotAnImage  = errors.New("file is not an image")
	ErrNoThumbnail = errors.New("thumbnail not available")
)

// Photo is an image attached to a venue.
type Photo struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venue_id"`
	UploaderID    string    `json:"uploader_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// PhotoURL returns the public URL for accessing a photo by its ID.
func PhotoURL(id string) string {
	return "/v1/photos/" + id
}

// ThumbnailURL returns the public URL for accessing a photo's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/photos/" + id + "/thumbnail"
}
