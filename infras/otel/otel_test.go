package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/shared/failure"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "tourdesk"

	o := otel.New(cfg)

	ctx, scope := o.NewScope(context.Background(), "service", "service.Test")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"period_id": "p-1",
		"count":     3,
		"total":     int64(10),
		"amount":    1500.5,
		"visible":   true,
		"ids":       []string{"a", "b"},
		"other":     struct{}{},
	})
	scope.AddEvent("computed")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	assert.NoError(t, o.Shutdown(context.Background()))
}

func TestScope_TraceError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "client failure keeps status unset", err: failure.NotFound("period"), want: codes.Unset},
		{name: "server error marks the span", err: errors.New("connection refused"), want: codes.Error},
		{name: "nil is ignored", err: nil, want: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, span := provider.Tracer("test").Start(context.Background(), tt.name)

			scope := otel.NewScope(span)
			scope.TraceError(tt.err)
			scope.SetAttribute("elapsed", 1500*time.Millisecond)
			scope.End()

			ended := recorder.Ended()
			assert.Equal(t, tt.want, ended[len(ended)-1].Status().Code)
		})
	}
}
