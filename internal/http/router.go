package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

type Handlers struct {
	Products *ProductHandler
	Carts    *CartHandler
	Messages *MessageHandler
	Chat     http.Handler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// the websocket must not sit behind the request timeout
	if h.Chat != nil {
		r.Handle("/ws", h.Chat)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(MaxBodySize(cfg.MaxRequestBodySize))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Post("/", h.Products.Create)
			r.Get("/{pid}", h.Products.Get)
			r.Put("/{pid}", h.Products.Update)
			r.Delete("/{pid}", h.Products.Delete)
		})
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.Carts.Create)
			r.Get("/{cid}", h.Carts.Get)
			r.Post("/{cid}/product/{pid}", h.Carts.AddProduct)
		})
		r.Get("/messages", h.Messages.List)
	})

	return r
}
