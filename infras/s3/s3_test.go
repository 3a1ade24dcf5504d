package s3_test

import (
	"testing"

	"tourdesk/config"
	"tourdesk/infras/otel/mocks"
	"tourdesk/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectNameFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.APIEndpoint = "https://storage.example.com"
	cfg.External.S3.PublicDomain = "https://cdn.tourdesk.io/"
	cfg.External.S3.BucketName = "tourdesk"

	client := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name   string
		bucket string
		url    string
		want   string
	}{
		{name: "public domain", url: "https://cdn.tourdesk.io/tours/cover.jpg", want: "tours/cover.jpg"},
		{name: "api endpoint with default bucket", url: "https://storage.example.com/tourdesk/tours/a.png", want: "tours/a.png"},
		{name: "api endpoint with explicit bucket", bucket: "other", url: "https://storage.example.com/other/x.png", want: "x.png"},
		{name: "foreign url", url: "https://elsewhere.io/tours/a.png", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.GetObjectNameFromURL(tt.bucket, tt.url))
		})
	}
}
