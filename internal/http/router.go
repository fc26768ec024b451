package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	JWTSecret      []byte
	RequestTimeout time.Duration
}

type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Payments *PaymentHandler
	QrStream *QrStreamHandler
	Wallet   *WalletHandler
	Vouchers *VoucherHandler
	Feedback *FeedbackHandler
}

func NewRouter(cfg RouterConfig, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(cfg.JWTSecret))

		// The SSE stream outlives the global timeout, so it gets its own
		// subtree without one.
		r.Group(func(r chi.Router) {
			r.Get("/payments/netsqr/stream/{txn_retrieval_ref}", h.QrStream.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.Products.List)
				r.Get("/{product_id}", h.Products.Get)
				r.Group(func(r chi.Router) {
					r.Use(AdminOnly)
					r.Post("/", h.Products.Create)
					r.Put("/{product_id}", h.Products.Update)
					r.Delete("/{product_id}", h.Products.Delete)
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", h.Cart.RemoveItem)
				r.Delete("/", h.Cart.ClearCart)
			})

			r.Post("/cart/voucher-quote", h.Checkout.QuoteVoucher)
			r.Post("/checkout", h.Checkout.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Get("/{order_id}", h.Orders.Get)
				r.Post("/{order_id}/confirm", h.Orders.ConfirmCash)
				r.Get("/{order_id}/feedback", h.Feedback.GetForOrder)
				r.Post("/{order_id}/feedback", h.Feedback.SubmitForOrder)
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Get("/", h.Feedback.List)
				r.Post("/", h.Feedback.SubmitGeneral)
				r.With(AdminOnly).Delete("/{feedback_id}", h.Feedback.Delete)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/card/create-order", h.Payments.CreateCardOrder)
				r.Post("/card/capture", h.Payments.CaptureCardOrder)
				r.Post("/netsqr/request", h.Payments.StartQrPayment)
				r.Get("/netsqr/success", h.Payments.QrSuccess)
				r.Get("/netsqr/fail", h.Payments.QrFail)
				r.Post("/wallet/pay", h.Wallet.PayOrder)
			})

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", h.Wallet.Overview)
				r.Post("/topup", h.Wallet.StartTopup)
				r.Post("/topup/netsqr", h.Wallet.StartQrTopup)
				r.Post("/topup/card/create-order", h.Wallet.CreateCardTopupOrder)
				r.Post("/topup/card/capture", h.Wallet.CaptureCardTopup)
				r.Get("/netsqr/success", h.Wallet.QrSuccess)
				r.Get("/netsqr/fail", h.Wallet.QrFail)
			})

			r.Route("/vouchers", func(r chi.Router) {
				r.Use(AdminOnly)
				r.Get("/", h.Vouchers.List)
				r.Post("/", h.Vouchers.Create)
			})
		})
	})

	return r
}
