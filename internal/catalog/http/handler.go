package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/app"
	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
	"github.com/dwikikusuma/distributor-portal/pkg/money"
	"github.com/dwikikusuma/distributor-portal/pkg/response"
)

type Handler struct {
	svc *app.Service
	log *slog.Logger
}

func NewHandler(svc *app.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: logger.OrDefault(log)}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("", h.ListProducts)
		catalog.GET("/:id", h.GetProduct)
	}
}

type offerDTO struct {
	BulkDiscount        int  `json:"bulkDiscount"`
	LimitedTimeOffer    bool `json:"limitedTimeOffer"`
	LimitedTimeDiscount int  `json:"limitedTimeDiscount"`
}

type productDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Unit        string      `json:"unit"`
	Price       json.Number `json:"price"`
	MRP         json.Number `json:"mrp"`
	InStock     bool        `json:"inStock"`
	Schemes     []string    `json:"schemes"`
	MinOrderQty int         `json:"minOrderQty"`
	Offer       offerDTO    `json:"offer"`
}

type sectionsDTO struct {
	Discount20 []productDTO `json:"discount20"`
	Discount10 []productDTO `json:"discount10"`
	Discount5  []productDTO `json:"discount5"`
	NoDiscount []productDTO `json:"noDiscount"`
}

type listingDTO struct {
	Products   []productDTO `json:"products"`
	Sections   sectionsDTO  `json:"sections"`
	Categories []string     `json:"categories"`
}

// ListProducts returns the filtered listing. Categories always come from the
// full listing so the filter bar does not shrink as the user narrows down.
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	all, err := h.svc.ListProducts(ctx, app.Filter{})
	if err != nil {
		h.fail(c, "list products", err)
		return
	}

	filtered, err := h.svc.ListProducts(ctx, app.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.fail(c, "list products", err)
		return
	}

	sec := h.svc.Sections(filtered)
	response.Success(c, listingDTO{
		Products: toProductDTOs(filtered),
		Sections: sectionsDTO{
			Discount20: toProductDTOs(sec.Discount20),
			Discount10: toProductDTOs(sec.Discount10),
			Discount5:  toProductDTOs(sec.Discount5),
			NoDiscount: toProductDTOs(sec.NoDiscount),
		},
		Categories: app.Categories(all),
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get product", err)
		return
	}
	response.Success(c, toProductDTO(p))
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	status, code, msg := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "catalog request failed", slog.String("op", op), slog.Any("err", err))
	}
	response.Error(c, status, code, msg)
}

// httpStatusFromError treats anything that is not a lookup error as the
// product backend failing.
func httpStatusFromError(err error) (int, string, string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	default:
		return http.StatusBadGateway, "UNAVAILABLE", "product listing unavailable"
	}
}

func toProductDTOs(products []domain.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

func toProductDTO(p domain.Product) productDTO {
	schemes := p.Schemes
	if schemes == nil {
		schemes = []string{}
	}
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Unit:        p.Unit,
		Price:       money.Number(p.Price),
		MRP:         money.Number(p.MRP),
		InStock:     p.InStock,
		Schemes:     schemes,
		MinOrderQty: p.MinOrderQty,
		Offer: offerDTO{
			BulkDiscount:        p.Offer.BulkDiscount,
			LimitedTimeOffer:    p.Offer.LimitedTimeOffer,
			LimitedTimeDiscount: p.Offer.LimitedTimeDiscount,
		},
	}
}
