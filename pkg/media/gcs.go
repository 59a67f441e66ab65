package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type GCSUploader struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSUploader opens a Cloud Storage client. An empty credsPath uses
// Application Default Credentials.
func NewGCSUploader(ctx context.Context, bucket, prefix, credsPath string) (*GCSUploader, error) {
	var client *storage.Client
	var err error
	if credsPath == "" {
		client, err = storage.NewClient(ctx)
	} else {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: client, bucket: bucket, prefix: prefix}, nil
}

func (u *GCSUploader) Name() string { return "gcs" }

func (u *GCSUploader) Upload(ctx context.Context, up Upload) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	objectPath := filepath.ToSlash(filepath.Join(u.prefix, uuid.NewString()+ext))

	wc := u.client.Bucket(u.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = up.ContentType
	wc.ChunkSize = 0 // single-shot write for typical media sizes
	n, err := io.Copy(wc, up.Data)
	if err != nil {
		_ = wc.Close()
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	return &Result{
		URL:          fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectPath),
		PublicID:     objectPath,
		ResourceType: resourceType(up.ContentType),
		Format:       strings.TrimPrefix(ext, "."),
		Bytes:        n,
	}, nil
}

func resourceType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return "raw"
	}
}
