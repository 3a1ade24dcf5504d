package router

import (
	"tourdesk/internal/handlers/auth"
	"tourdesk/internal/handlers/booking"
	"tourdesk/internal/handlers/operator"
	"tourdesk/internal/handlers/period"
	"tourdesk/internal/handlers/tour"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Operator operator.Handler
	Tour     tour.Handler
	Period   period.Handler
	Booking  booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Operator.Router(routerGroup)
		r.DomainHandlers.Tour.Router(routerGroup)
		r.DomainHandlers.Period.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
