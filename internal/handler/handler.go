package handler

import (
	"github.com/mariusw/photoframe/internal/config"
	"github.com/mariusw/photoframe/internal/store"
)

// Handler handles HTTP requests
type Handler struct {
	store *store.Store
	cfg   *config.Config
}

// NewHandler creates a new handler
func NewHandler(st *store.Store, cfg *config.Config) *Handler {
	return &Handler{
		store: st,
		cfg:   cfg,
	}
}
