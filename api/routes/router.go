package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/api/controllers"
	"github.com/campuscart/campuscart-backend/api/middleware"
	authsvc "github.com/campuscart/campuscart-backend/internal/auth"
	cartsvc "github.com/campuscart/campuscart-backend/internal/cart"
	checkoutsvc "github.com/campuscart/campuscart-backend/internal/checkout"
	mediasvc "github.com/campuscart/campuscart-backend/internal/media"
	merchsvc "github.com/campuscart/campuscart-backend/internal/merchandise"
	ordersvc "github.com/campuscart/campuscart-backend/internal/orders"
	shopsvc "github.com/campuscart/campuscart-backend/internal/shops"
	"github.com/campuscart/campuscart-backend/pkg/auth/session"
	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/db"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/metrics"
	"github.com/campuscart/campuscart-backend/pkg/redis"
	"github.com/campuscart/campuscart-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type membershipStore interface {
	Add(ctx context.Context, userID, shopID uuid.UUID) error
	Remove(ctx context.Context, userID, shopID uuid.UUID) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redis.Pinger
	GCS            gcs.Pinger
	SessionManager sessionManager
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService        authsvc.Service
	ShopService        shopsvc.Service
	MembershipStore    membershipStore
	MerchandiseService merchsvc.Service
	CartService        cartsvc.Service
	CheckoutService    checkoutsvc.Service
	OrderService       ordersvc.Service
	MediaService       mediasvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware)
		r.Get("/metrics", deps.HTTPMetrics.Handler().ServeHTTP)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	// Public browsing surface.
	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Get("/", controllers.ShopsList(deps.ShopService, logg))
		r.Get("/{shopID}", controllers.ShopsGet(deps.ShopService, logg))
	})
	r.Route("/api/v1/merchandise", func(r chi.Router) {
		r.Get("/", controllers.MerchandiseList(deps.MerchandiseService, logg))
		r.Get("/{merchandiseID}", controllers.MerchandiseGet(deps.MerchandiseService, logg))
	})
	r.Get("/api/v1/categories", controllers.MerchandiseCategories(deps.MerchandiseService, logg))

	// Everything below needs a signed-in user.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/v1/shops", func(r chi.Router) {
			r.Post("/", controllers.ShopsCreate(deps.ShopService, logg))
			r.Put("/{shopID}", controllers.ShopsUpdate(deps.ShopService, logg))
			r.Post("/{shopID}/membership", controllers.MembershipJoin(deps.MembershipStore, logg))
			r.Delete("/{shopID}/membership", controllers.MembershipLeave(deps.MembershipStore, logg))
			r.Get("/{shopID}/orders", controllers.OrdersListForShop(deps.OrderService, logg))
		})

		r.Route("/v1/merchandise", func(r chi.Router) {
			r.Post("/", controllers.MerchandiseCreate(deps.MerchandiseService, logg))
			r.Put("/{merchandiseID}", controllers.MerchandiseUpdate(deps.MerchandiseService, logg))
			r.Delete("/{merchandiseID}", controllers.MerchandiseDelete(deps.MerchandiseService, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(deps.CartService, logg))
			r.Post("/lines", controllers.CartAddLine(deps.CartService, logg))
			r.Put("/lines/{lineID}/variant", controllers.CartChangeVariant(deps.CartService, logg))
			r.Put("/lines/{lineID}/size", controllers.CartChangeSize(deps.CartService, logg))
			r.Put("/lines/{lineID}/quantity", controllers.CartChangeQuantity(deps.CartService, logg))
			r.Delete("/lines/{lineID}", controllers.CartDeleteLine(deps.CartService, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutView(deps.CheckoutService, logg))
			r.Post("/lines/{lineID}/toggle", controllers.CheckoutToggleLine(deps.CheckoutService, logg))
			r.Put("/lines/{lineID}/payment-method", controllers.CheckoutSetPaymentMethod(deps.CheckoutService, logg))
			r.Put("/lines/{lineID}/receipt", controllers.CheckoutAttachReceipt(deps.CheckoutService, logg))
			r.Delete("/lines/{lineID}/receipt", controllers.CheckoutRemoveReceipt(deps.CheckoutService, logg))
			r.Post("/submit", controllers.CheckoutSubmit(deps.CheckoutService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersListMine(deps.OrderService, logg))
			r.Post("/{orderID}/cancel", controllers.OrdersCancel(deps.OrderService, logg))
			r.Post("/{orderID}/paid", controllers.OrdersMarkPaid(deps.OrderService, logg))
			r.Post("/{orderID}/received", controllers.OrdersMarkReceived(deps.OrderService, logg))
		})

		r.Post("/v1/media", controllers.MediaUpload(deps.MediaService, cfg.Media, logg))
	})

	return r
}
