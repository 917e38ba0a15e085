package router

import (
	"github.com/go-chi/chi/v5"

	"tally/internal/handlers/automation"
	"tally/internal/handlers/booking"
	"tally/internal/handlers/resource"
	"tally/internal/handlers/tenant"
	"tally/transport/http/middleware"
)

type DomainHandlers struct {
	Booking    booking.Handler
	Resource   resource.Handler
	Tenant     tenant.Handler
	Automation automation.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.Auth
}

// SetupRoutes mounts the API. The booking surface is tenant-authenticated,
// the admin surface requires an operator token.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Tracing)
	router.Use(r.App.CORS)
	router.Use(r.App.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Group(func(tenantGroup chi.Router) {
			tenantGroup.Use(r.Auth.Tenant)

			r.DomainHandlers.Booking.Router(tenantGroup)
			r.DomainHandlers.Resource.Router(tenantGroup)
		})

		routerGroup.Group(func(operatorGroup chi.Router) {
			operatorGroup.Use(r.Auth.Operator)

			r.DomainHandlers.Tenant.Router(operatorGroup)
			r.DomainHandlers.Automation.Router(operatorGroup)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
	}
}
