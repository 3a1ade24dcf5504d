// Package base64 handles images sent inline as data URIs.
package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURI = errors.New("invalid data uri")

func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, base64Marker)

	if !strings.HasPrefix(file, dataPrefix) || end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// DecodedLen estimates the payload size of a data URI without decoding it.
func DecodedLen(file string) int {
	idx := strings.Index(file, base64Marker)
	if idx == -1 {
		return len(file)
	}

	return stdBase64.StdEncoding.DecodedLen(len(file) - idx - len(base64Marker))
}

// Decode splits a data URI into its content type and raw bytes.
func Decode(file string) (contentType string, data []byte, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrInvalidDataURI
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return contentType, data, nil
}

// Extension maps an image content type to a file extension.
func Extension(contentType string) string {
	_, ext, found := strings.Cut(contentType, "/")
	if !found {
		return ""
	}

	if ext == "jpeg" {
		return "jpg"
	}

	return ext
}
