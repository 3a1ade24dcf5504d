package constant

import (
	"time"
)

// ContextSystem is the actor recorded for writes made without an operator,
// such as wholesaler syncs.
const (
	ContextSystem = "system"
)

type contextKey string

const (
	ContextKeyOperatorID    contextKey = "operator_id"
	ContextKeyOperatorEmail contextKey = "operator_email"
	ContextKeyOperatorRole  contextKey = "operator_role"
	ContextKeyTokenID       contextKey = "token_id"
	ContextKeyRequestID     contextKey = "request_id"
)

// Operator roles, most privileged first.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleAgent      = "agent"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID   = "id"
	RequestMaxMemory = 10 << 20 // 10 MB
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
	PqErrorCodeCheckViolation  = "23514"
)

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
)

const (
	MinutesToSeconds = 60
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelConsumerScopeName   = "consumer"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
	OtelKafkaScopeName    = "kafka"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorInternal             = "INTERNAL SERVER ERROR"
)

const (
	ServerEnvDevelopment = "development"
)

const (
	Asterix = "*"
	Empty   = ""
)
