package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/distributor-portal/internal/pricing/app"
	"github.com/dwikikusuma/distributor-portal/internal/pricing/domain"
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
	router.GET("/cart/summary", h.GetSummary)
}

type lineDTO struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Quantity        int         `json:"quantity"`
	Price           json.Number `json:"price"`
	MRP             json.Number `json:"mrp"`
	LineTotal       json.Number `json:"lineTotal"`
	DiscountPercent int64       `json:"discountPercent"`
}

type summaryDTO struct {
	Lines     []lineDTO   `json:"lines"`
	Subtotal  json.Number `json:"subtotal"`
	MRPTotal  json.Number `json:"mrpTotal"`
	Savings   json.Number `json:"savings"`
	TaxRate   json.Number `json:"taxRate"`
	Tax       json.Number `json:"tax"`
	Total     json.Number `json:"total"`
	ItemCount int         `json:"itemCount"`
}

func (h *Handler) GetSummary(c *gin.Context) {
	s, err := h.svc.Quote(c.Request.Context())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "quote failed", slog.Any("err", err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	response.Success(c, toSummaryDTO(s))
}

func toSummaryDTO(s domain.Summary) summaryDTO {
	lines := make([]lineDTO, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, lineDTO{
			ID:              l.ID,
			Name:            l.Name,
			Quantity:        l.Quantity,
			Price:           money.Number(l.Price),
			MRP:             money.Number(l.MRP),
			LineTotal:       money.Number(l.LineTotal),
			DiscountPercent: l.DiscountPercent,
		})
	}
	return summaryDTO{
		Lines:     lines,
		Subtotal:  money.Number(s.Subtotal),
		MRPTotal:  money.Number(s.MRPTotal),
		Savings:   money.Number(s.Savings),
		TaxRate:   money.Number(s.TaxRate),
		Tax:       money.Number(s.Tax),
		Total:     money.Number(s.Total),
		ItemCount: s.ItemCount,
	}
}
