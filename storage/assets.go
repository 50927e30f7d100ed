package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// AssetStore хранит статические файлы страницы (логотип) в бакете с публичным URL.
type AssetStore interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Exists(ctx context.Context, key string) (bool, error)

	GetPublicURL(key string) string
}

// PublicURL joins the bucket's public base URL and an object key.
// It returns "" when either part is missing or base is not an absolute URL.
func PublicURL(base, key string) string {
	key = strings.TrimLeft(key, "/")
	if base == "" || key == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return ""
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	keyURL := &url.URL{Path: key}
	return baseURL.ResolveReference(keyURL).String()
}
