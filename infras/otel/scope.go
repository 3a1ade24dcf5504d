package otel

import (
	"fmt"
	"net/http"
	"time"

	"tourdesk/shared/failure"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

// TraceError records err on the span. Client failures (4xx) stay events so
// that rejected requests do not mark the trace as failed.
func (s *scopeImpl) TraceError(err error) {
	if err == nil {
		return
	}

	s.span.RecordError(err)

	code := failure.GetCode(err)
	s.span.SetAttributes(attribute.Int("error.code", code))

	if code < http.StatusInternalServerError {
		return
	}

	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	switch val := value.(type) {
	case bool:
		s.span.SetAttributes(attribute.Bool(key, val))
	case string:
		s.span.SetAttributes(attribute.String(key, val))
	case int:
		s.span.SetAttributes(attribute.Int(key, val))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, val))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, val))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, val))
	case []int:
		s.span.SetAttributes(attribute.IntSlice(key, val))
	case time.Time:
		s.span.SetAttributes(attribute.String(key, val.Format(time.RFC3339)))
	case time.Duration:
		s.span.SetAttributes(attribute.Int64(key+".ms", val.Milliseconds()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", val)))
	}
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
