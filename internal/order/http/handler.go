package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/distributor-portal/internal/order/app"
	"github.com/dwikikusuma/distributor-portal/internal/order/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/logger"
	"github.com/dwikikusuma/distributor-portal/pkg/response"
)

type Handler struct {
	workflow *app.Workflow
	log      *slog.Logger
}

func NewHandler(workflow *app.Workflow, log *slog.Logger) *Handler {
	return &Handler{workflow: workflow, log: logger.OrDefault(log)}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/status", h.GetStatus)
	}
}

type receiptDTO struct {
	OrderNumber    string `json:"orderNumber"`
	ContractNumber string `json:"contractNumber"`
}

type failureDTO struct {
	Kind       string `json:"kind"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type statusDTO struct {
	State     string      `json:"state"`
	Busy      bool        `json:"busy"`
	AttemptID string      `json:"attemptId,omitempty"`
	Receipt   *receiptDTO `json:"receipt,omitempty"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	receipt, err := h.workflow.Submit(c.Request.Context())
	if err != nil {
		status, code, msg := httpStatusFromError(err)
		var se *domain.SubmitError
		if errors.As(err, &se) {
			response.ErrorWithData(c, status, code, msg, failureDTO{Kind: se.Kind.String(), StatusCode: se.StatusCode})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "order submission failed", slog.Any("err", err))
		response.Error(c, status, code, msg)
		return
	}
	response.Created(c, receiptDTO{OrderNumber: receipt.OrderNumber, ContractNumber: receipt.ContractNumber})
}

func (h *Handler) GetStatus(c *gin.Context) {
	st := h.workflow.Status()
	out := statusDTO{
		State:     st.State.String(),
		Busy:      st.Busy,
		AttemptID: st.AttemptID,
	}
	if st.Receipt != nil {
		out.Receipt = &receiptDTO{OrderNumber: st.Receipt.OrderNumber, ContractNumber: st.Receipt.ContractNumber}
	}
	if st.Error != nil {
		out.Error = st.Error.Message
	}
	if !st.UpdatedAt.IsZero() {
		out.UpdatedAt = &st.UpdatedAt
	}
	response.Success(c, out)
}

// httpStatusFromError maps a failed attempt to a response. The message is the
// user-facing text of the classified failure.
func httpStatusFromError(err error) (int, string, string) {
	var se *domain.SubmitError
	if !errors.As(err, &se) {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch se.Kind {
	case domain.KindEmptyCart:
		return http.StatusUnprocessableEntity, se.Kind.String(), se.Message
	case domain.KindSubmissionInProgress:
		return http.StatusConflict, se.Kind.String(), se.Message
	case domain.KindAuthenticationFailed, domain.KindOrderRejected:
		return http.StatusBadGateway, se.Kind.String(), se.Message
	case domain.KindOrderRequestFailed:
		return http.StatusGatewayTimeout, se.Kind.String(), se.Message
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
