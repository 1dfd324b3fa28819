package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitstore/internal/domain"
	"fitstore/internal/dto"
	apperrors "fitstore/internal/errors"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type OrderQueries interface {
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, page, perPage int) ([]domain.Order, int, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int64, newStatus domain.OrderStatus) (*domain.Order, error)
}

type OrderController struct {
	checkout CheckoutUseCase
	queries  OrderQueries
	status   StatusUpdater
	logger   *zap.Logger
}

func NewOrderController(checkout CheckoutUseCase, queries OrderQueries, status StatusUpdater, logger *zap.Logger) *OrderController {
	return &OrderController{
		checkout: checkout,
		queries:  queries,
		status:   status,
		logger:   logger,
	}
}

func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "request body must be valid JSON"))
		return
	}

	resp, err := c.checkout.Checkout(r.Context(), req)
	if err != nil {
		c.writeError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.Ok(http.StatusCreated, "order placed", resp))
}

func (c *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "id must be a positive integer"))
		return
	}

	order, err := c.queries.FindByID(r.Context(), id)
	if err != nil {
		c.writeError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "order retrieved", toOrderDTO(*order)))
}

func (c *OrderController) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "order number is required"))
		return
	}

	order, err := c.queries.FindByNumber(r.Context(), number)
	if err != nil {
		c.writeError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "order retrieved", toOrderDTO(*order)))
}

func (c *OrderController) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "userId is required"))
		return
	}

	orders, err := c.queries.FindByUser(r.Context(), userID)
	if err != nil {
		c.writeError(w, err, c.logger)
		return
	}

	summaries := make([]dto.OrderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, toOrderSummaryDTO(o))
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "orders retrieved", summaries))
}

func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	orders, total, err := c.queries.List(r.Context(), page, perPage)
	if err != nil {
		c.writeError(w, err, c.logger)
		return
	}

	summaries := make([]dto.OrderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, toOrderSummaryDTO(o))
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "orders retrieved", dto.OrderListDTO{
		Orders:  summaries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}))
}

func (c *OrderController) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "id must be a positive integer"))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, "request body must be valid JSON"))
		return
	}

	order, err := c.status.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		c.writeError(w, err, c.logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Ok(http.StatusOK, "order status updated", toOrderDTO(*order)))
}

func toOrderDTO(o domain.Order) dto.OrderDTO {
	items := make([]dto.OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemDTO{
			ItemKind:  string(item.Ref.Kind),
			ItemID:    item.Ref.ID,
			Title:     item.Title,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	return dto.OrderDTO{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       items,
		ShippingAddress: dto.ShippingAddressDTO{
			Name:        o.ShippingAddress.Name,
			Phone:       o.ShippingAddress.Phone,
			AddressLine: o.ShippingAddress.AddressLine,
			City:        o.ShippingAddress.City,
			Region:      o.ShippingAddress.Region,
			PostalCode:  o.ShippingAddress.PostalCode,
		},
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Tax:           o.Tax,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderSummaryDTO(o domain.Order) dto.OrderSummaryDTO {
	return dto.OrderSummaryDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (c *OrderController) writeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, dto.Err(http.StatusBadRequest, ve.Message))
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.Err(http.StatusNotFound, err.Error()))
		return
	}
	if _, ok := apperrors.IsInvalidStatusTransitionError(err); ok {
		c.writeJSON(w, http.StatusConflict, dto.Err(http.StatusConflict, err.Error()))
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeJSON(w, http.StatusConflict, dto.Err(http.StatusConflict, err.Error()))
		return
	}
	if ge, ok := apperrors.IsGatewayError(err); ok {
		c.writeJSON(w, http.StatusBadGateway, dto.Err(http.StatusBadGateway, ge.Error()))
		return
	}
	if _, ok := apperrors.IsGatewayTimeoutError(err); ok {
		c.writeJSON(w, http.StatusGatewayTimeout, dto.Err(http.StatusGatewayTimeout, err.Error()))
		return
	}
	if _, ok := apperrors.IsGatewayUnreachableError(err); ok {
		c.writeJSON(w, http.StatusBadGateway, dto.Err(http.StatusBadGateway, "payment gateway unreachable"))
		return
	}
	if _, ok := apperrors.IsOrderNumberCollisionError(err); ok {
		c.writeJSON(w, http.StatusConflict, dto.Err(http.StatusConflict, "could not allocate an order number, please retry"))
		return
	}
	if _, ok := apperrors.IsOrderPersistenceError(err); ok {
		logger.Error("order persistence failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "order could not be saved"))
		return
	}

	logger.Error("unexpected order error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.Err(http.StatusInternalServerError, "an unexpected error occurred"))
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, body dto.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
