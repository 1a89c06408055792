package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opsdash/backend/internal/domain/order"
	"github.com/opsdash/backend/internal/infrastructure/spapi"
	"github.com/opsdash/backend/internal/interfaces/http/dto"
	"github.com/opsdash/backend/internal/interfaces/http/middleware"
)

// SyncRunner executes one order sync run
type SyncRunner interface {
	Run(ctx context.Context) (*order.SyncResult, error)
}

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orders order.Repository
	syncer SyncRunner
	limit  int
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler. defaultLimit caps list
// responses when the caller does not pass one.
func NewOrderHandler(orders order.Repository, syncer SyncRunner, defaultLimit int, logger *zap.Logger) *OrderHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &OrderHandler{
		orders: orders,
		syncer: syncer,
		limit:  defaultLimit,
		logger: logger,
	}
}

// OrderResponse represents an order in API responses. Timestamps are
// ISO-8601 in UTC; absent upstream values are null.
type OrderResponse struct {
	ID             uint    `json:"id"`
	AmazonOrderID  string  `json:"amazon_order_id"`
	OrderStatus    *string `json:"order_status"`
	PurchaseDate   *string `json:"purchase_date"`
	LastUpdateDate *string `json:"last_update_date"`
	BuyerName      *string `json:"buyer_name"`
	Amount         *string `json:"amount"`
	Cost           *string `json:"cost"`
	SyncedAt       string  `json:"synced_at"`
}

// OrderListResponse wraps the order list with its total
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
}

// DeleteOrdersResponse reports how many rows a reset removed
type DeleteOrdersResponse struct {
	Deleted int64 `json:"deleted"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		AmazonOrderID: o.AmazonOrderID,
		OrderStatus:   o.OrderStatus,
		BuyerName:     o.BuyerName,
		SyncedAt:      o.SyncedAt.UTC().Format(time.RFC3339),
	}
	if o.PurchaseDate != nil {
		s := o.PurchaseDate.UTC().Format(time.RFC3339)
		resp.PurchaseDate = &s
	}
	if o.LastUpdateDate != nil {
		s := o.LastUpdateDate.UTC().Format(time.RFC3339)
		resp.LastUpdateDate = &s
	}
	if o.Amount != nil {
		s := o.Amount.StringFixed(2)
		resp.Amount = &s
	}
	if o.Cost != nil {
		s := o.Cost.StringFixed(2)
		resp.Cost = &s
	}
	return resp
}

// ListOrders returns stored orders, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+middleware.ValidationMessage(err))
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = h.limit
	}

	rows, err := h.orders.FindAll(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		h.InternalError(c, "Failed to list orders")
		return
	}

	items := make([]OrderResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toOrderResponse(&rows[i]))
	}
	h.Success(c, OrderListResponse{Orders: items, Count: len(items)})
}

// TriggerSync runs one synchronous order sync and returns its summary
func (h *OrderHandler) TriggerSync(c *gin.Context) {
	result, err := h.syncer.Run(c.Request.Context())
	if err != nil {
		h.handleSyncError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteAllOrders removes every stored order
func (h *OrderHandler) DeleteAllOrders(c *gin.Context) {
	deleted, err := h.orders.DeleteAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to delete orders", zap.Error(err))
		h.InternalError(c, "Failed to delete orders")
		return
	}
	h.logger.Info("All orders deleted", zap.Int64("deleted", deleted))
	h.Success(c, DeleteOrdersResponse{Deleted: deleted})
}

// handleSyncError maps upstream integration failures onto the API error
// surface: missing credentials mean the integration is unavailable, any
// upstream rejection or network failure is a bad gateway.
func (h *OrderHandler) handleSyncError(c *gin.Context, err error) {
	var missingErr *spapi.MissingCredentialsError
	if errors.As(err, &missingErr) {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamUnavailable,
			"Amazon SP-API credentials are not configured: "+missingErr.Error())
		return
	}

	var authErr *spapi.AuthError
	if errors.As(err, &authErr) {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamRejected,
			fmt.Sprintf("Amazon token exchange failed with HTTP %d", authErr.Status))
		return
	}

	var reqErr *spapi.RequestError
	if errors.As(err, &reqErr) {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamRejected,
			fmt.Sprintf("Amazon order fetch failed with HTTP %d", reqErr.Status))
		return
	}

	if errors.Is(err, spapi.ErrUpstreamUnreachable) {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamUnreachable,
			"Amazon SP-API is unreachable")
		return
	}

	h.logger.Error("Order sync failed", zap.Error(err))
	h.InternalError(c, "Order sync failed")
}
