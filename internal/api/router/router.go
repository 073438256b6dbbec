package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gostore/internal/api/customer"
	"gostore/internal/api/exchange"
	"gostore/internal/api/faq"
	"gostore/internal/api/item"
	"gostore/internal/api/location"
	"gostore/internal/api/staff"
	"gostore/internal/api/stock"
	"gostore/internal/api/warranty"
	"gostore/internal/domain"
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Exchange *exchange.Handler
	Stock    *stock.Handler
	Item     *item.Handler
	Location *location.Handler
	Staff    *staff.Handler
	Customer *customer.Handler
	Warranty *warranty.Handler
	FAQ      *faq.Handler
}

// Options agrupa o que os middlewares globais precisam.
type Options struct {
	TokenService    middleware.TokenService
	RateLimitCache  cache.Client
	RateLimitMax    int
	RateLimitPeriod time.Duration
	Metrics         http.Handler
	Logger          logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(opts.TokenService)
	protected := func(fn http.HandlerFunc) http.Handler {
		return auth(fn)
	}
	managers := func(fn http.HandlerFunc) http.Handler {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleManager)(fn))
	}
	admins := func(fn http.HandlerFunc) http.Handler {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin)(fn))
	}

	// --- Rotas públicas ---
	mux.HandleFunc("GET /ping", PingHandler)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	mux.HandleFunc("POST /v1/auth/login", h.Staff.LoginHandler)
	mux.HandleFunc("GET /v1/locations", h.Location.GetAllLocationsHandler)
	mux.HandleFunc("GET /v1/locations/{id}", h.Location.GetLocationByIDHandler)
	mux.HandleFunc("GET /v1/faqs", h.FAQ.ListPublicHandler)
	mux.HandleFunc("GET /v1/faqs/{slug}", h.FAQ.GetBySlugHandler)

	// --- Trocas ---
	mux.Handle("POST /v1/exchanges", protected(h.Exchange.CreateExchangeHandler))
	mux.Handle("GET /v1/exchanges", protected(h.Exchange.ListExchangesHandler))
	mux.Handle("GET /v1/exchanges/{id}", protected(h.Exchange.GetExchangeHandler))
	mux.Handle("PATCH /v1/exchanges/{id}", protected(h.Exchange.UpdateExchangeHandler))
	mux.Handle("DELETE /v1/exchanges/{id}", managers(h.Exchange.DeleteExchangeHandler))
	mux.Handle("POST /v1/exchanges/{id}/status", managers(h.Exchange.TransitionHandler))

	// --- Estoque ---
	mux.Handle("POST /v1/stock/adjust", managers(h.Stock.AdjustStockHandler))
	mux.Handle("GET /v1/stock/{variantId}/{locationId}", protected(h.Stock.GetStockLevelHandler))
	mux.Handle("GET /v1/stock/movements", protected(h.Stock.ListMovementsHandler))

	// --- Catálogo ---
	mux.Handle("POST /v1/items", managers(h.Item.CreateItemHandler))
	mux.Handle("GET /v1/items", protected(h.Item.ListItemsHandler))
	mux.Handle("GET /v1/items/{id}", protected(h.Item.GetItemByIDHandler))

	// --- Lojas ---
	mux.Handle("POST /v1/locations", admins(h.Location.CreateLocationHandler))
	mux.Handle("PUT /v1/locations/{id}", admins(h.Location.UpdateLocationHandler))
	mux.Handle("DELETE /v1/locations/{id}", admins(h.Location.DeleteLocationHandler))

	// --- Funcionários ---
	mux.Handle("POST /v1/staff", admins(h.Staff.RegisterHandler))
	mux.Handle("GET /v1/staff", managers(h.Staff.ListStaffHandler))
	mux.Handle("GET /v1/staff/{id}", protected(h.Staff.GetStaffHandler))

	// --- Clientes e garantias ---
	mux.Handle("POST /v1/customers", protected(h.Customer.CreateCustomerHandler))
	mux.Handle("GET /v1/customers", protected(h.Customer.ListCustomersHandler))
	mux.Handle("GET /v1/customers/{id}", protected(h.Customer.GetCustomerHandler))
	mux.Handle("GET /v1/customers/{id}/warranties", protected(h.Warranty.ListCustomerWarrantiesHandler))

	mux.Handle("POST /v1/warranty-types", managers(h.Warranty.CreateTypeHandler))
	mux.Handle("GET /v1/warranty-types", protected(h.Warranty.ListTypesHandler))
	mux.Handle("GET /v1/warranty-types/{id}", protected(h.Warranty.GetTypeHandler))
	mux.Handle("PUT /v1/warranty-types/{id}", managers(h.Warranty.UpdateTypeHandler))
	mux.Handle("DELETE /v1/warranty-types/{id}", managers(h.Warranty.DeleteTypeHandler))

	mux.Handle("POST /v1/warranties", protected(h.Warranty.CreateWarrantyHandler))
	mux.Handle("GET /v1/warranties/{id}", protected(h.Warranty.GetWarrantyHandler))
	mux.Handle("PUT /v1/warranties/{id}", managers(h.Warranty.UpdateWarrantyHandler))

	// --- FAQ (administração) ---
	mux.Handle("GET /v1/admin/faqs", managers(h.FAQ.ListAllHandler))
	mux.Handle("POST /v1/admin/faqs", managers(h.FAQ.CreateHandler))
	mux.Handle("GET /v1/admin/faqs/{id}", managers(h.FAQ.GetHandler))
	mux.Handle("PUT /v1/admin/faqs/{id}", managers(h.FAQ.UpdateHandler))
	mux.Handle("DELETE /v1/admin/faqs/{id}", managers(h.FAQ.DeleteHandler))

	if opts.RateLimitCache == nil {
		return mux
	}
	return middleware.RateLimiter(opts.RateLimitCache, opts.RateLimitMax, opts.RateLimitPeriod, opts.Logger)(mux)
}

// PingHandler é o health check da API.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
