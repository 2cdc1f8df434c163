package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cardczar/cah-table-backend/internal/room"
	"github.com/cardczar/cah-table-backend/internal/ws"
)

func SetupRoutes(rm *room.Room, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/state", TableState(rm))
	r.Get("/ws", ws.Handler(rm, log))
	return r
}
