// Package storage persists product images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ImageStore saves and removes image objects by key.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ContentType returns the MIME type for an allowed image filename.
func ContentType(filename string) (string, bool) {
	ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// SanitizeFilename strips directories and anything outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	return name
}

// ProductImageKey builds a timestamp-prefixed key so re-uploads never collide.
func ProductImageKey(filename string, now time.Time) string {
	return fmt.Sprintf("products/%s_%s", now.Format("20060102150405"), SanitizeFilename(filename))
}
