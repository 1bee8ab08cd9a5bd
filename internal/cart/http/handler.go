package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/distributor-portal/internal/cart/app"
	"github.com/dwikikusuma/distributor-portal/internal/cart/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
	"github.com/dwikikusuma/distributor-portal/pkg/money"
	"github.com/dwikikusuma/distributor-portal/pkg/response"
)

type Handler struct {
	svc      *app.Service
	products app.ProductCatalog
	log      *slog.Logger
}

func NewHandler(svc *app.Service, products app.ProductCatalog, log *slog.Logger) *Handler {
	return &Handler{svc: svc, products: products, log: logger.OrDefault(log)}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.SetQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)

		cart.GET("/templates", h.ListTemplates)
		cart.POST("/templates", h.SaveTemplate)
		cart.GET("/templates/:name", h.GetTemplate)
		cart.DELETE("/templates/:name", h.DeleteTemplate)
		cart.POST("/templates/:name/merge", h.MergeTemplate)
	}
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	// Quantity defaults to the product's minimum order quantity.
	Quantity *int `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type SaveTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

type lineItemDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Unit        string      `json:"unit"`
	Price       json.Number `json:"price"`
	MRP         json.Number `json:"mrp"`
	Quantity    int         `json:"quantity"`
	MinOrderQty int         `json:"minOrderQty"`
	Schemes     []string    `json:"schemes"`
}

type cartDTO struct {
	Items     []lineItemDTO `json:"items"`
	ItemCount int           `json:"itemCount"`
}

type templateDTO struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Items     []lineItemDTO `json:"items"`
}

func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, toCartDTO(h.svc.Snapshot()))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	item, err := h.products.LineItem(c.Request.Context(), req.ProductID)
	if err != nil {
		h.fail(c, "add item", err)
		return
	}

	qty := item.MinOrderQty
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	cart, err := h.svc.AddOrIncrement(c.Request.Context(), item, qty)
	if err != nil {
		h.fail(c, "add item", err)
		return
	}
	response.Success(c, toCartDTO(cart))
}

func (h *Handler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	cart, err := h.svc.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	if err != nil {
		h.fail(c, "set quantity", err)
		return
	}
	response.Success(c, toCartDTO(cart))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	cart, err := h.svc.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "remove item", err)
		return
	}
	response.Success(c, toCartDTO(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		h.fail(c, "clear cart", err)
		return
	}
	response.Success(c, toCartDTO(domain.Cart{}))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	list, err := h.svc.Templates(c.Request.Context())
	if err != nil {
		h.fail(c, "list templates", err)
		return
	}
	out := make([]templateDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTemplateDTO(t))
	}
	response.Success(c, out)
}

func (h *Handler) SaveTemplate(c *gin.Context) {
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	t, err := h.svc.SaveAsTemplate(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "save template", err)
		return
	}
	response.Created(c, toTemplateDTO(t))
}

func (h *Handler) GetTemplate(c *gin.Context) {
	t, err := h.svc.Template(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, "get template", err)
		return
	}
	response.Success(c, toTemplateDTO(t))
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Request.Context(), c.Param("name")); err != nil {
		h.fail(c, "delete template", err)
		return
	}
	response.Success(c, gin.H{"name": c.Param("name")})
}

func (h *Handler) MergeTemplate(c *gin.Context) {
	cart, err := h.svc.MergeTemplate(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, "merge template", err)
		return
	}
	response.Success(c, toCartDTO(cart))
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	status, code, msg := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "cart request failed", slog.String("op", op), slog.Any("err", err))
	}
	response.Error(c, status, code, msg)
}

func httpStatusFromError(err error) (int, string, string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, domain.ErrBelowMinimumOrder):
		var me *domain.MinimumOrderError
		if errors.As(err, &me) {
			return http.StatusUnprocessableEntity, "BELOW_MINIMUM_ORDER", me.Error()
		}
		return http.StatusUnprocessableEntity, "BELOW_MINIMUM_ORDER", err.Error()
	case errors.Is(err, domain.ErrEmptyTemplate):
		return http.StatusUnprocessableEntity, "EMPTY_TEMPLATE", err.Error()
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, app.ErrProductNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, app.ErrCatalogUnavailable):
		return http.StatusBadGateway, "UNAVAILABLE", "product listing unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

func toCartDTO(c domain.Cart) cartDTO {
	items := toLineDTOs(c.Items)
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
	}
	return cartDTO{Items: items, ItemCount: count}
}

func toTemplateDTO(t domain.Template) templateDTO {
	return templateDTO{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, Items: toLineDTOs(t.Items)}
}

func toLineDTOs(items []domain.LineItem) []lineItemDTO {
	out := make([]lineItemDTO, 0, len(items))
	for _, it := range items {
		schemes := it.Schemes
		if schemes == nil {
			schemes = []string{}
		}
		out = append(out, lineItemDTO{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Image:       it.Image,
			Unit:        it.Unit,
			Price:       money.Number(it.Price),
			MRP:         money.Number(it.MRP),
			Quantity:    it.Quantity,
			MinOrderQty: it.MinOrderQty,
			Schemes:     schemes,
		})
	}
	return out
}
