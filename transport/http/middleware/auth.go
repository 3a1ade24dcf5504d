package middleware

import (
	"context"
	"errors"
	"net/http"

	"tourdesk/config"
	"tourdesk/infras/jwt"
	"tourdesk/infras/otel"
	"tourdesk/permissions"
	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
	"tourdesk/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// routePermission resolves the chi pattern of the request, e.g.
// /v1/periods/{id}/offer, and looks it up in the permission table.
func (m *authRoleImpl) routePermission(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path, permissions.Permission{}
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)

	if m.permission == nil {
		return path, permissions.Permission{}
	}

	return path, m.permission.FindPermissions(path, request.Method)
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(SkipAuthKey("skip")).(bool)

	return skip
}

// Auth validates the bearer token and stores the operator on the context.
// Routes marked skip in the permission table and API key callers pass through.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		path, permission := m.routePermission(request)

		if skipped(ctx) || permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		fail := func(err error) {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()
		}

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			fail(failure.Unauthorized("Missing authorization header"))

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			fail(failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Token validation failed"
			}

			fail(failure.Unauthorized(message))

			return
		}

		if claims.OperatorID == "" || claims.Email == "" {
			log.Error().Str("operator_id", claims.OperatorID).Msg("JWT claims: operator id or email is empty")
			fail(failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyOperatorID, claims.OperatorID)
		ctx = context.WithValue(ctx, constant.ContextKeyOperatorEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyOperatorRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the operator role against the roles allowed for the route.
// Requires prior authentication via Auth middleware
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if skipped(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		_, permission := m.routePermission(request)

		if m.permission.Skip || permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyOperatorRole).(string)

		if !permission.Allows(role) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"operator_role": role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal services such as the wholesaler sync engine call the
// API with a shared key instead of an operator token.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), false)
		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request.WithContext(ctx))

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			err := failure.ForbiddenError

			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
