package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/server/http/dto"
)

// AnalyticsHandler serves admin reports.
type AnalyticsHandler struct {
	facade AnalyticsFacade
	logger *slog.Logger
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(facade AnalyticsFacade, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{facade: facade, logger: logger}
}

// Orders handles GET /api/analytics/order.
func (h *AnalyticsHandler) Orders(c *gin.Context) {
	counts, err := h.facade.OrderCounts(c.Request.Context(), CurrentCaller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderCountsResponse{
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Complete:   counts.Complete,
		Declined:   counts.Declined,
		Total:      counts.Total,
	})
}

// Profit handles GET /api/analytics/profit.
func (h *AnalyticsHandler) Profit(c *gin.Context) {
	report, err := h.facade.Profit(c.Request.Context(), CurrentCaller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	perOrg := make(map[string]string, len(report.PerOrganization))
	for org, sum := range report.PerOrganization {
		perOrg[org] = sum.String()
	}
	c.JSON(http.StatusOK, dto.ProfitResponse{TotalProfit: report.Total.String(), ProfitPerOrg: perOrg})
}
