package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jmccrae/buzzer-backend/internal/room"
	"github.com/jmccrae/buzzer-backend/internal/ws"
)

func SetupRoutes(rm *room.Room, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(rm, log))
	return r
}
