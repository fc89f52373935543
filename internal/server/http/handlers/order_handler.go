package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// Create handles POST /api/orders/create.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed order payload")
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentCaller(c), model.Checkout{
		UserID:        req.UserID,
		Lines:         toLines(req.Items),
		FromCart:      req.FromCart,
		TableNumber:   req.TableNumber,
		PaymentMethod: model.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		PaymentID:     req.PaymentID,
		ClientTotal:   req.TotalPrice,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Edit handles POST /api/orders/edit.
func (h *OrderHandler) Edit(c *gin.Context) {
	var req dto.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed order payload")
		return
	}

	patch := model.OrderPatch{
		TableNumber: req.TableNumber,
		PaymentID:   req.PaymentID,
		Items:       toLines(req.Items),
		ClientTotal: req.TotalPrice,
		Version:     req.Version,
	}
	if req.PaymentMethod != nil {
		method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(*req.PaymentMethod)))
		patch.PaymentMethod = &method
	}

	order, err := h.facade.EditOrder(c.Request.Context(), CurrentCaller(c), req.ID, patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus handles POST /api/orders/updateStatus.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed status payload")
		return
	}

	status := model.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentCaller(c), req.ID, status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /api/orders/delete.
func (h *OrderHandler) Delete(c *gin.Context) {
	var req dto.DeleteOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed delete payload")
		return
	}

	deleted, err := h.facade.DeleteOrders(c.Request.Context(), CurrentCaller(c), req.IDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteOrdersResponse{DeletedIDs: deleted, DeletedCount: len(deleted)})
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := model.OrderFilter{
		UserID:     c.Query("userId"),
		Status:     model.OrderStatus(strings.ToLower(c.Query("status"))),
		SortBy:     model.OrderSortField(c.Query("sort")),
		Descending: !strings.EqualFold(c.Query("order"), "asc"),
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		badRequest(c, "limit must be an integer")
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		badRequest(c, "offset must be an integer")
		return
	}

	page, err := h.facade.Orders(c.Request.Context(), CurrentCaller(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(page.Orders)),
		Total:  page.Total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, o := range page.Orders {
		response.Orders = append(response.Orders, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		UserName:      order.UserName,
		UserEmail:     order.UserEmail,
		UserAvatar:    order.UserAvatar,
		TableNumber:   order.TableNumber,
		PaymentMethod: string(order.PaymentMethod),
		PaymentID:     order.PaymentID,
		Items:         toLineDTOs(order.Items),
		TotalPrice:    order.TotalPrice,
		Status:        string(order.Status),
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
