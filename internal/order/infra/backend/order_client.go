package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dwikikusuma/distributor-portal/internal/order/domain"
	"github.com/dwikikusuma/distributor-portal/pkg/money"
)

const maxBody = 64 << 10

// OrderClient posts orders to the backend order endpoint and classifies the
// outcome into domain.SubmitError kinds.
type OrderClient struct {
	url    string
	client *http.Client
}

func NewOrderClient(url string, client *http.Client) *OrderClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &OrderClient{url: url, client: client}
}

type orderRequest struct {
	AccountID  string      `json:"accountId"`
	OrderItems []orderItem `json:"orderItems"`
}

type orderItem struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

type orderResponse struct {
	Success        bool   `json:"success"`
	OrderNumber    string `json:"orderNumber"`
	ContractNumber string `json:"contractNumber"`
	Message        string `json:"message"`
}

type errorEntry struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

func (c *OrderClient) CreateOrder(ctx context.Context, token string, p domain.Payload) (domain.Receipt, error) {
	body, err := json.Marshal(toRequest(p))
	if err != nil {
		return domain.Receipt{}, domain.NewRequestError(fmt.Errorf("encode order: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return domain.Receipt{}, domain.NewRequestError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Receipt{}, domain.NewRequestError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return domain.Receipt{}, domain.NewRequestError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := domain.NewRejectedError(resp.StatusCode, rejectionMessage(resp.StatusCode, raw))
		se.Err = fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw))
		return domain.Receipt{}, se
	}

	var out orderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		se := domain.NewRejectedError(resp.StatusCode, domain.MsgBusinessFailure)
		se.Err = fmt.Errorf("decode response: %w", err)
		return domain.Receipt{}, se
	}
	if !out.Success {
		msg := strings.TrimSpace(out.Message)
		if msg == "" {
			msg = domain.MsgBusinessFailure
		}
		return domain.Receipt{}, domain.NewRejectedError(resp.StatusCode, msg)
	}

	return domain.Receipt{OrderNumber: out.OrderNumber, ContractNumber: out.ContractNumber}, nil
}

// rejectionMessage prefers fixed text for 400, 401 and 404, then the first
// message of an error array, then an object message, then a generic fallback.
func rejectionMessage(status int, body []byte) string {
	switch status {
	case http.StatusBadRequest:
		return domain.MsgBadRequest
	case http.StatusUnauthorized:
		return domain.MsgUnauthorized
	case http.StatusNotFound:
		return domain.MsgEndpointNotFound
	}

	var list []errorEntry
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		if msg := strings.TrimSpace(list[0].Message); msg != "" {
			return msg
		}
	}

	var obj errorEntry
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg := strings.TrimSpace(obj.Message); msg != "" {
			return msg
		}
	}

	return domain.MsgRejectedFallback
}

func toRequest(p domain.Payload) orderRequest {
	items := make([]orderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, orderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: money.Number(it.UnitPrice),
		})
	}
	return orderRequest{AccountID: p.AccountID, OrderItems: items}
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 256 {
		s = s[:256] + "..."
	}
	return s
}
