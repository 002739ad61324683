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

// OrderHandler handles the credit-check and order submission endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

func (h *OrderHandler) userID(r *http.Request) string {
	if s := SessionFromContext(r.Context()); s != nil {
		return s.UserID
	}
	return ""
}

// CheckCredit handles POST /api/v1/orders/credit-check.
func (h *OrderHandler) CheckCredit(w http.ResponseWriter, r *http.Request) {
	var req service.CreditCheckInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	decision, err := h.service.CheckCredit(r.Context(), h.userID(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: decision})
}

// SubmitOrder handles POST /api/v1/orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitOrderInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sub, err := h.service.SubmitOrder(r.Context(), h.userID(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: sub})
}

// ListSubmissions handles GET /api/v1/orders/submissions.
func (h *OrderHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	subs, total, err := h.service.ListSubmissions(r.Context(), h.userID(r), perPage, (page-1)*perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(subs, int(total), page, perPage))
}

// GetSubmission handles GET /api/v1/orders/submissions/{id}.
func (h *OrderHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.service.GetSubmission(r.Context(), h.userID(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sub})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
