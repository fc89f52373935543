package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	facade CartFacade
	logger *slog.Logger
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade, logger *slog.Logger) *CartHandler {
	return &CartHandler{facade: facade, logger: logger}
}

// Get handles GET /api/cart?userId=.
func (h *CartHandler) Get(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = CurrentCaller(c).ID
	}
	cart, err := h.facade.Cart(c.Request.Context(), CurrentCaller(c), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

// Add handles POST /api/cart/create.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed cart payload")
		return
	}
	cart, err := h.facade.AddToCart(c.Request.Context(), CurrentCaller(c), req.UserID, toLines(req.Items))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

// Replace handles POST /api/cart/edit.
func (h *CartHandler) Replace(c *gin.Context) {
	var req dto.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed cart payload")
		return
	}
	cart, err := h.facade.ReplaceCart(c.Request.Context(), CurrentCaller(c), req.UserID, toLines(req.Items), req.Version)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*cart))
}

func toCartResponse(cart model.Cart) dto.CartResponse {
	return dto.CartResponse{
		UserID:  cart.UserID,
		Items:   toLineDTOs(cart.Lines),
		Total:   model.LinesTotal(cart.Lines).String(),
		Version: cart.Version,
	}
}
