package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tally/config"
	"tally/infras/jwt"
	"tally/infras/otel"
	tenantService "tally/internal/domains/tenant/service"
	"tally/shared/constant"
	"tally/shared/failure"
	"tally/transport/http/response"
)

const bearerPrefix = "Bearer "

// Auth guards the two halves of the API: Operator covers the admin surface
// (tenants, automation, deletes) via JWT, Tenant covers the booking surface
// via a per-tenant API key, with an operator token accepted as an override.
type Auth interface {
	Operator(next http.Handler) http.Handler
	Tenant(next http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	tenants    tenantService.Tenant
	otel       otel.Otel
	cfg        *config.Config
}

func NewAuthMiddleware(jwtService jwt.JWT, tenants tenantService.Tenant, otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		jwtService: jwtService,
		tenants:    tenants,
		otel:       otel,
		cfg:        cfg,
	}
}

// Operator validates the operator JWT and stashes the claims in the context.
func (m *authImpl) Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.operator.middleware")

		claims, err := m.validateBearer(request)
		if err != nil {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// Tenant authenticates tenant-scoped requests. A request carrying an API key
// is checked against the tenant's stored hash; a request without one must
// carry a valid operator token instead.
func (m *authImpl) Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.tenant.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			claims, err := m.validateBearer(request)
			if err != nil {
				response.WithError(writer, err)

				scope.TraceError(err)
				scope.End()

				return
			}

			scope.SetAttribute("http.source", "operator")

			ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

			scope.End()
			next.ServeHTTP(writer, request.WithContext(ctx))

			return
		}

		tenantID := request.Header.Get(constant.RequestHeaderTenantID)
		if tenantID == "" {
			err := failure.Unauthorized("Missing " + constant.RequestHeaderTenantID + " header")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		tenant, err := m.tenants.VerifyAPIKey(ctx, tenantID, apiKey)
		if err != nil {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		scope.SetAttribute("http.source", "tenant")

		ctx = context.WithValue(ctx, constant.ContextKeyTenantID, tenant.ID)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authImpl) validateBearer(request *http.Request) (*jwt.Claims, error) {
	authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
	if authHeader == "" {
		return nil, failure.Unauthorized("Missing authorization header") //nolint:wrapcheck
	}

	tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || tokenString == "" {
		return nil, failure.Unauthorized("Invalid authorization header format") //nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
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

		return nil, failure.Unauthorized(message) //nolint:wrapcheck
	}

	if claims.UserID == "" {
		return nil, failure.Unauthorized("Invalid token claims") //nolint:wrapcheck
	}

	return claims, nil
}
