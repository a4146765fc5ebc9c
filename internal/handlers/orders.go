package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/storefront/internal/middleware"
	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/models"
)

type statusRequest struct {
	Status models.OrderStatus `json:"status_id"`
}

type opinionCreated struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"order_id"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	created, err := h.Orders.CreateOrder(r.Context(), req)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	headers, err := h.Orders.ListOrders(r.Context(), actor, nil)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, headers)
}

func (h *Handler) ListOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, err := idParam(r, "statusId")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	status := models.OrderStatus(id)

	headers, err := h.Orders.ListOrders(r.Context(), actor, &status)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, headers)
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	headers, err := h.Orders.ListUserOrders(r.Context(), actor, chi.URLParam(r, "username"))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, headers)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, order)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	var req statusRequest
	if err = decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	change, err := h.Orders.ChangeStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, change)
}

func (h *Handler) AddOpinion(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	var req models.OpinionRequest
	if err = decodeJSON(r, &req); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	if _, err = h.Orders.AddOpinion(r.Context(), actor, id, req.Rating, req.Content); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, opinionCreated{Success: true, OrderID: id})
}
