package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"order-management/internal/model"
	"order-management/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service  service.OrderService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto model.OrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, "invalid request body", h.logger)
		return
	}

	if err := validateOrderDTO(h.validate, &dto); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	created, err := h.service.CreateOrder(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/orders requests with optional status, startDate and
// endDate query filters (dates as yyyy-MM-dd).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var status *string
	if s := query.Get("status"); s != "" {
		status = &s
	}

	startDate, err := parseDateParam(query.Get("startDate"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, err.Error(), h.logger)
		return
	}
	endDate, err := parseDateParam(query.Get("endDate"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, err.Error(), h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), status, startDate, endDate)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{orderId} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Update handles PUT /api/orders/{orderId} requests.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	var dto model.OrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, "invalid request body", h.logger)
		return
	}

	if err := validateOrderDTO(h.validate, &dto); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	updated, err := h.service.UpdateOrder(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// orderIDFromPath extracts the numeric order ID from /api/orders/{id},
// writing the 400 response itself when the segment is missing or malformed.
func (h *OrderHandler) orderIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	idStr = strings.TrimSuffix(idStr, "/")
	if idStr == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, "order ID is required", h.logger)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrLabelBadRequest, "invalid order ID format", h.logger)
		return 0, false
	}

	return id, true
}

// parseDateParam parses an optional yyyy-MM-dd query value.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return nil, err
	}
	t := d.Time
	return &t, nil
}
