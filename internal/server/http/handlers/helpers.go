package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
	"github.com/polkiloo/pocha/internal/server/http/middleware"
)

// CurrentCaller extracts the resolved caller from context.
func CurrentCaller(c *gin.Context) model.Caller {
	return middleware.Caller(c)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrTotalMismatch),
		errors.Is(err, domainErrors.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrUnauthenticated),
		errors.Is(err, domainErrors.ErrIdentityMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Unexpected errors are logged and hidden.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed",
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", c.GetString(middleware.RequestIDContextKey)),
				slog.String("error", err.Error()),
			)
		}
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func toLines(in []dto.LineDTO) []model.CartLine {
	if in == nil {
		return nil
	}
	out := make([]model.CartLine, 0, len(in))
	for _, l := range in {
		out = append(out, model.CartLine{
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			Price:        l.Price,
			Type:         l.Type,
			Organization: l.Organization,
		})
	}
	return out
}

func toLineDTOs(in []model.CartLine) []dto.LineDTO {
	out := make([]dto.LineDTO, 0, len(in))
	for _, l := range in {
		out = append(out, dto.LineDTO{
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			Price:        l.Price,
			Type:         l.Type,
			Organization: l.Organization,
			TotalPrice:   l.TotalPrice,
		})
	}
	return out
}
