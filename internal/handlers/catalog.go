package handlers

import (
	"net/http"

	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/models"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	product, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	if err := h.validateProduct(req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	product, err := h.Catalog.CreateProduct(r.Context(), req)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	var req models.ProductUpdateRequest
	if err = decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	if req.Empty() {
		respond.Message(w, http.StatusBadRequest, "at least one field must be provided")
		return
	}
	if err = h.Validator.Struct(req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	if req.UnitPrice != nil {
		if err = validation.Positive("unit_price", *req.UnitPrice); err != nil {
			respond.Error(w, h.Logger, err)
			return
		}
	}
	if req.UnitWeight != nil {
		if err = validation.Positive("unit_weight", *req.UnitWeight); err != nil {
			respond.Error(w, h.Logger, err)
			return
		}
	}

	product, err := h.Catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Catalog.ListStatuses(r.Context())
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, statuses)
}

func (h *Handler) validateProduct(req models.ProductCreateRequest) error {
	if err := h.Validator.Struct(req); err != nil {
		return err
	}
	if err := validation.Positive("unit_price", req.UnitPrice); err != nil {
		return err
	}
	return validation.Positive("unit_weight", req.UnitWeight)
}
