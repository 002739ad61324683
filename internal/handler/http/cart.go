package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/nguyenhoangkha03/salesdesk/pkg/errors"
	"github.com/nguyenhoangkha03/salesdesk/pkg/httputil"
	"github.com/nguyenhoangkha03/salesdesk/pkg/validator"

	"github.com/nguyenhoangkha03/salesdesk/internal/service"
)

// CartHandler handles the cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates the cart handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// ShippingFeeRequest is the body for PUT /api/v1/cart/shipping.
type ShippingFeeRequest struct {
	ShippingFee int64 `json:"shipping_fee" validate:"gte=0"`
}

func (h *CartHandler) userID(r *http.Request) string {
	if s := SessionFromContext(r.Context()); s != nil {
		return s.UserID
	}
	return ""
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("product id must be a positive integer")
	}
	return id, nil
}

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), h.userID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// GetSummary handles GET /api/v1/cart/summary.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), h.userID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// AddLine handles POST /api/v1/cart/lines.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req service.AddLineInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddLine(r.Context(), h.userID(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateLine handles PUT /api/v1/cart/lines/{productID}.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req service.UpdateLineInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateLine(r.Context(), h.userID(r), productID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveLine handles DELETE /api/v1/cart/lines/{productID}.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.RemoveLine(r.Context(), h.userID(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// SetShippingFee handles PUT /api/v1/cart/shipping.
func (h *CartHandler) SetShippingFee(w http.ResponseWriter, r *http.Request) {
	var req ShippingFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.SetShippingFee(r.Context(), h.userID(r), req.ShippingFee)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), h.userID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
