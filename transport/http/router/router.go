package router

import (
	"cumbrecita/internal/handlers/chat"
	"cumbrecita/internal/handlers/checkout"
	"cumbrecita/internal/handlers/reconciliation"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Checkout       checkout.Handler
	Chat           chat.Handler
	Reconciliation reconciliation.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Checkout.Router(routerGroup)
		r.DomainHandlers.Chat.Router(routerGroup)
		r.DomainHandlers.Reconciliation.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
