package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/storefront/internal/auth"
	"github.com/jayjaytrn/storefront/internal/db"
	"github.com/jayjaytrn/storefront/internal/orders"
	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
	"go.uber.org/zap"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListStatuses(ctx context.Context) ([]models.StatusName, error)
}

type Handler struct {
	Database  db.Database
	Catalog   Catalog
	Orders    *orders.Service
	Tokens    *auth.Issuer
	Validator *validation.Validator
	Logger    *zap.SugaredLogger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Database.Ping(r.Context()); err != nil {
		h.Logger.Errorw("database ping failed", "error", err)
		respond.Message(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", models.ErrValidation, err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", models.ErrValidation, name)
	}
	return id, nil
}
