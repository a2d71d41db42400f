package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rl1809/slow-inventory/internal/core/domain"
	"github.com/rl1809/slow-inventory/internal/core/service"
)

//go:embed web
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

type HTTPHandler struct {
	inventory *service.InventoryService
	readiness func(context.Context) error
	logger    *zap.Logger
}

type ItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type ListResponse struct {
	Items []ItemResponse `json:"items"`
}

type ClaimResponse struct {
	ClaimID string       `json:"claim_id"`
	Item    ItemResponse `json:"item"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func NewHTTPHandler(inventory *service.InventoryService, readiness func(context.Context) error, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		readiness: readiness,
		logger:    logger,
	}
}

// NewRouter wires the page shell, its static assets and the JSON API.
func NewRouter(h *HTTPHandler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.Page)

	assets, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	router.Route("/api", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Post("/items/{id}/claim", h.Claim)
	})

	router.Get("/health", h.HealthCheck)

	return router
}

// Page serves the shell immediately; the data region is populated by the
// page itself via /api/items.
func (h *HTTPHandler) Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, map[string]string{"Title": "Slow Inventory"}); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away during the artificial delay.
			return
		}
		h.logger.Warn("list items failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	resp := ListResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:    item.ID,
			Name:  item.Name,
			Stock: item.Stock,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) Claim(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Message: "item id is required",
		})
		return
	}

	result, err := h.inventory.Claim(r.Context(), itemID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return
		case errors.Is(err, domain.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Message: "Item not found",
			})
		case errors.Is(err, domain.ErrOutOfStock):
			writeJSON(w, http.StatusGone, ErrorResponse{
				Message: "Out of stock",
			})
		default:
			h.logger.Error("claim failed", zap.String("item_id", itemID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Message: "internal error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, ClaimResponse{
		ClaimID: result.ClaimID,
		Item: ItemResponse{
			ID:    result.Item.ID,
			Name:  result.Item.Name,
			Stock: result.Item.Stock,
		},
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.readiness(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
