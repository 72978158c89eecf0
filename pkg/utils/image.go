package utils

import (
	appErrors "estate-brokerage/pkg/errors"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes is the default profile picture limit.
const MaxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded picture whose content type was sniffed from its bytes.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DetectImage rejects payloads over limit or whose content is not a supported image.
func DetectImage(data []byte, limit int64) (*Image, error) {
	if int64(len(data)) > limit {
		return nil, appErrors.ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, appErrors.ErrInvalidImage
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return nil, appErrors.ErrInvalidImage
	}

	return &Image{Data: data, ContentType: mtype.String(), Extension: ext}, nil
}

// IsPlainFileName reports whether name is a bare file name that cannot
// escape the directory or prefix it is resolved in.
func IsPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return path.Base(name) == name
}
