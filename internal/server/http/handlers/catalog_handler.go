package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
)

// CatalogHandler serves items, organizations, item types and tables.
type CatalogHandler struct {
	facade CatalogFacade
	logger *slog.Logger
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{facade: facade, logger: logger}
}

// ListItems handles GET /api/items.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.facade.Items(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItemResponse(item))
	}
	c.JSON(http.StatusOK, response)
}

// CreateItem handles POST /api/items/create.
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed item payload")
		return
	}
	item, err := h.facade.CreateItem(c.Request.Context(), CurrentCaller(c), toItem(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

// EditItem handles POST /api/items/edit.
func (h *CatalogHandler) EditItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed item payload")
		return
	}
	item, err := h.facade.UpdateItem(c.Request.Context(), CurrentCaller(c), toItem(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

// DeleteItem handles DELETE /api/items/delete.
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := deleteID(c)
	if !ok {
		return
	}
	deleted, err := h.facade.DeleteItem(c.Request.Context(), CurrentCaller(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{DeletedID: deleted})
}

// LabelHandlers returns list/create/edit/delete handlers bound to one label kind.
func (h *CatalogHandler) LabelHandlers(kind string) (list, create, edit, remove gin.HandlerFunc) {
	list = func(c *gin.Context) {
		labels, err := h.facade.Labels(c.Request.Context(), kind)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		response := make([]dto.LabelResponse, 0, len(labels))
		for _, l := range labels {
			response = append(response, dto.LabelResponse{ID: l.ID, Name: l.Name})
		}
		c.JSON(http.StatusOK, response)
	}
	create = func(c *gin.Context) {
		var req dto.LabelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed payload")
			return
		}
		label, err := h.facade.CreateLabel(c.Request.Context(), CurrentCaller(c), kind, req.Name)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, dto.LabelResponse{ID: label.ID, Name: label.Name})
	}
	edit = func(c *gin.Context) {
		var req dto.LabelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "malformed payload")
			return
		}
		label, err := h.facade.RenameLabel(c.Request.Context(), CurrentCaller(c), kind, req.ID, req.Name)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, dto.LabelResponse{ID: label.ID, Name: label.Name})
	}
	remove = func(c *gin.Context) {
		id, ok := deleteID(c)
		if !ok {
			return
		}
		deleted, err := h.facade.DeleteLabel(c.Request.Context(), CurrentCaller(c), kind, id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, dto.DeleteResponse{DeletedID: deleted})
	}
	return list, create, edit, remove
}

// ListTables handles GET /api/tables.
func (h *CatalogHandler) ListTables(c *gin.Context) {
	tables, err := h.facade.Tables(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		response = append(response, dto.TableResponse{ID: t.ID, Number: t.Number})
	}
	c.JSON(http.StatusOK, response)
}

// CreateTable handles POST /api/tables/create.
func (h *CatalogHandler) CreateTable(c *gin.Context) {
	var req dto.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed table payload")
		return
	}
	table, err := h.facade.CreateTable(c.Request.Context(), CurrentCaller(c), req.Number)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TableResponse{ID: table.ID, Number: table.Number})
}

// EditTable handles POST /api/tables/edit.
func (h *CatalogHandler) EditTable(c *gin.Context) {
	var req dto.TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed table payload")
		return
	}
	table, err := h.facade.RenumberTable(c.Request.Context(), CurrentCaller(c), req.ID, req.Number)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TableResponse{ID: table.ID, Number: table.Number})
}

// DeleteTable handles DELETE /api/tables/delete.
func (h *CatalogHandler) DeleteTable(c *gin.Context) {
	id, ok := deleteID(c)
	if !ok {
		return
	}
	deleted, err := h.facade.DeleteTable(c.Request.Context(), CurrentCaller(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{DeletedID: deleted})
}

// deleteID reads the id from ?id= or a {"id": n} body.
func deleteID(c *gin.Context) (int64, bool) {
	if raw := c.Query("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "id must be an integer")
			return 0, false
		}
		return id, true
	}
	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "id is required")
		return 0, false
	}
	return req.ID, true
}

func toItem(req dto.ItemRequest) model.Item {
	return model.Item{
		ID:           req.ID,
		Name:         req.Name,
		Price:        req.Price,
		Organization: req.Organization,
		Type:         req.Type,
		Img:          req.Img,
	}
}

func toItemResponse(item model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Price:        item.Price,
		Organization: item.Organization,
		Type:         item.Type,
		Img:          item.Img,
		CreatedAt:    item.CreatedAt,
	}
}
