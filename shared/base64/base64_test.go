package base64_test

import (
	"errors"
	"testing"

	"tourdesk/shared/base64"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid image png",
			input:    "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==",
			expected: "image/png",
		},
		{
			name:     "valid image jpeg",
			input:    "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQEAYABgAAD/2wBDAAEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQH/2wBDAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQEBAQH/wAARCAABAAEDASIAAhEBAxEB/8QAFQABAQAAAAAAAAAAAAAAAAAAAAv/xAAUEAEAAAAAAAAAAAAAAAAAAAAA/8QAFQEBAQAAAAAAAAAAAAAAAAAAAAX/xAAUEQEAAAAAAAAAAAAAAAAAAAAA/9oADAMBAAIRAxEAPwA/wJ8A",
			expected: "image/jpeg",
		},
		{
			name:     "valid text plain",
			input:    "data:text/plain;base64,SGVsbG8gV29ybGQ=",
			expected: "text/plain",
		},
		{
			name:     "valid application json",
			input:    "data:application/json;base64,eyJuYW1lIjoiSm9obiBEb2UifQ==",
			expected: "application/json",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "invalid format - no data prefix",
			input:    "image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==",
			expected: "",
		},
		{
			name:     "invalid format - no base64 marker",
			input:    "data:image/png,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==",
			expected: "",
		},
		{
			name:     "invalid format - missing semicolon",
			input:    "data:image/pngbase64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==",
			expected: "",
		},
		{
			name:     "only data prefix",
			input:    "data:",
			expected: "",
		},
		{
			name:     "only data prefix with base64",
			input:    "data:;base64,",
			expected: "",
		},
		{
			name:     "complex content type",
			input:    "data:image/svg+xml;charset=utf-8;base64,PHN2ZyB3aWR0aD0iMTAiIGhlaWdodD0iMTAiPjwvc3ZnPg==",
			expected: "image/svg+xml;charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base64.GetContentType(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,SGVsbG8gV29ybGQ=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if contentType != "text/plain" {
		t.Errorf("expected content type text/plain, got %q", contentType)
	}

	if string(data) != "Hello World" {
		t.Errorf("expected decoded payload, got %q", string(data))
	}

	if _, _, err := base64.Decode("not a data uri"); !errors.Is(err, base64.ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}

	if _, _, err := base64.Decode("data:image/png;base64,***"); !errors.Is(err, base64.ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI for corrupt payload, got %v", err)
	}
}

func TestDecodedLen(t *testing.T) {
	if got := base64.DecodedLen("data:text/plain;base64,SGVsbG8gV29ybGQ="); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}

	if got := base64.DecodedLen("plain"); got != 5 {
		t.Errorf("expected raw length 5, got %d", got)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"invalid":    "",
	}

	for input, expected := range tests {
		if got := base64.Extension(input); got != expected {
			t.Errorf("Extension(%q) = %q, want %q", input, got, expected)
		}
	}
}
