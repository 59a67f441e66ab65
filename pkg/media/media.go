// Package media abstracts where uploaded files end up. Cloudinary is the
// primary host, a GCS bucket the self-managed alternative, and the data-URL
// uploader keeps uploads working with no hosting configured at all.
package media

import (
	"context"
	"io"
)

type Upload struct {
	Data        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Result struct {
	URL          string `json:"url"`
	PublicID     string `json:"public_id,omitempty"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Bytes        int64  `json:"bytes,omitempty"`
}

type Uploader interface {
	Upload(ctx context.Context, up Upload) (*Result, error)
	Name() string
}
