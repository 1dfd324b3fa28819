package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	cartcontroller "fitstore/internal/cart/controller"
	"fitstore/internal/catalog"
	ordercontroller "fitstore/internal/order/controller"
	"fitstore/internal/payment"
)

func NewRouter(
	catalogCtrl *catalog.Controller,
	cartCtrl *cartcontroller.CartController,
	orderCtrl *ordercontroller.OrderController,
	callbackCtrl *payment.CallbackController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/products", catalogCtrl.ListProducts)
		r.Get("/products/{id}", catalogCtrl.GetProduct)
		r.Get("/packages", catalogCtrl.ListPackages)
		r.Get("/trainings", catalogCtrl.ListTrainings)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartCtrl.GetCart)
		r.Get("/count", cartCtrl.Count)
		r.Post("/items", cartCtrl.AddItem)
		r.Patch("/items/{id}/quantity", cartCtrl.ChangeQuantity)
		r.Patch("/items/{id}/selection", cartCtrl.ToggleSelection)
		r.Delete("/items/{id}", cartCtrl.RemoveItem)
	})

	r.Post("/checkout", orderCtrl.Checkout)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orderCtrl.GetByUser)
		r.Get("/{id}", orderCtrl.GetByID)
		r.Get("/number/{number}", orderCtrl.GetByNumber)
	})

	r.Route("/admin/orders", func(r chi.Router) {
		r.Get("/", orderCtrl.AdminList)
		r.Patch("/{id}/status", orderCtrl.AdminUpdateStatus)
	})

	// Gateway callbacks arrive as POST or GET depending on the customer's
	// bank flow.
	r.Route("/payment", func(r chi.Router) {
		r.Post("/success", callbackCtrl.Success)
		r.Get("/success", callbackCtrl.Success)
		r.Post("/fail", callbackCtrl.Fail)
		r.Get("/fail", callbackCtrl.Fail)
		r.Post("/cancel", callbackCtrl.Cancel)
		r.Get("/cancel", callbackCtrl.Cancel)
		r.Post("/ipn", callbackCtrl.IPN)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.New().String()
			w.Header().Set("X-Trace-Id", traceID)
			logger.Debug("request",
				zap.String("traceId", traceID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r)
		})
	}
}
