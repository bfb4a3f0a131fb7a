package storage

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotDataURI  = errors.New("storage: not a base64 data URI")
	ErrInvalidData = errors.New("storage: malformed base64 payload")
	ErrNotImage    = errors.New("storage: content is not an image")
)

// IsDataURI reports whether s carries inline base64 content.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:") && strings.Contains(s, ";base64,")
}

// DecodeDataURI splits "data:<type>;base64,<payload>" and decodes the payload.
// The declared type is returned as-is; use DetectImage to trust the bytes.
func DecodeDataURI(s string) ([]byte, string, error) {
	if !IsDataURI(s) {
		return nil, "", ErrNotDataURI
	}

	header, payload, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	declared := strings.TrimSuffix(header, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", ErrInvalidData
		}
	}
	return data, declared, nil
}

// DetectImage sniffs data and fails unless it is an image format.
func DetectImage(data []byte) (*mimetype.MIME, error) {
	kind := mimetype.Detect(data)
	for m := kind; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return kind, nil
		}
	}
	return nil, ErrNotImage
}
