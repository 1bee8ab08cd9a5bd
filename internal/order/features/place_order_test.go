package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cucumber/godog"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	cartapp "github.com/dwikikusuma/distributor-portal/internal/cart/app"
	cartdomain "github.com/dwikikusuma/distributor-portal/internal/cart/domain"
	cartredis "github.com/dwikikusuma/distributor-portal/internal/cart/infra/redis"
	"github.com/dwikikusuma/distributor-portal/internal/order/app"
	"github.com/dwikikusuma/distributor-portal/internal/order/domain"
	"github.com/dwikikusuma/distributor-portal/internal/order/infra/adapter"
	orderbackend "github.com/dwikikusuma/distributor-portal/internal/order/infra/backend"
	"github.com/dwikikusuma/distributor-portal/pkg/backend"
)

type receivedOrder struct {
	auth  string
	lines int
}

type placeOrderContext struct {
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	carts *cartredis.CartRepo
	cart  *cartapp.Service

	tokenSrv *httptest.Server
	orderSrv *httptest.Server

	mu          sync.Mutex
	token       string
	tokenStatus int
	orderStatus int
	orderBody   string
	tokenCalls  int
	orders      []receivedOrder

	receipt domain.Receipt
	err     error
}

func (c *placeOrderContext) setup() error {
	mr, err := miniredis.Run()
	if err != nil {
		return err
	}
	c.mr = mr
	c.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c.carts = cartredis.NewCartRepo(c.rdb, "cart")
	c.cart = cartapp.NewService(c.carts, cartredis.NewTemplateRepo(c.rdb, "cart:templates"), nil)
	c.cart.Load(context.Background())

	c.token = ""
	c.tokenStatus = http.StatusOK
	c.orderStatus = http.StatusOK
	c.orderBody = `{"success":true}`
	c.tokenCalls = 0
	c.orders = nil
	c.receipt = domain.Receipt{}
	c.err = nil

	c.tokenSrv = httptest.NewServer(http.HandlerFunc(c.serveToken))
	c.orderSrv = httptest.NewServer(http.HandlerFunc(c.serveOrder))
	return nil
}

func (c *placeOrderContext) teardown() {
	if c.tokenSrv != nil {
		c.tokenSrv.Close()
	}
	if c.orderSrv != nil {
		c.orderSrv.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.mr != nil {
		c.mr.Close()
	}
}

func (c *placeOrderContext) serveToken(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenCalls++

	w.Header().Set("Content-Type", "application/json")
	if c.tokenStatus != http.StatusOK {
		w.WriteHeader(c.tokenStatus)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"access_token": c.token, "token_type": "Bearer"})
}

func (c *placeOrderContext) serveOrder(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	var body struct {
		OrderItems []json.RawMessage `json:"orderItems"`
	}
	_ = json.Unmarshal(raw, &body)
	c.orders = append(c.orders, receivedOrder{auth: r.Header.Get("Authorization"), lines: len(body.OrderItems)})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(c.orderStatus)
	_, _ = w.Write([]byte(c.orderBody))
}

func (c *placeOrderContext) theCartHoldsProduct(id string, qty int, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	_, err = c.cart.AddOrIncrement(context.Background(), cartdomain.LineItem{
		ID:          id,
		Name:        "Product " + id,
		Unit:        "units",
		Price:       p,
		MRP:         p,
		MinOrderQty: 1,
	}, qty)
	return err
}

func (c *placeOrderContext) theCartIsEmpty() error {
	return c.cart.Clear(context.Background())
}

func (c *placeOrderContext) theTokenEndpointIssuesToken(token string) error {
	c.token = token
	return nil
}

func (c *placeOrderContext) theTokenEndpointRejectsTheClient() error {
	c.tokenStatus = http.StatusUnauthorized
	return nil
}

func (c *placeOrderContext) theOrderEndpointAccepts(order, contract string) error {
	b, err := json.Marshal(map[string]any{"success": true, "orderNumber": order, "contractNumber": contract})
	if err != nil {
		return err
	}
	c.orderStatus = http.StatusOK
	c.orderBody = string(b)
	return nil
}

func (c *placeOrderContext) theOrderEndpointRespondsWithStatus(status int) error {
	c.orderStatus = status
	c.orderBody = `{}`
	return nil
}

func (c *placeOrderContext) theOrderEndpointRespondsWithStatusAndBody(status int, body *godog.DocString) error {
	c.orderStatus = status
	c.orderBody = body.Content
	return nil
}

func (c *placeOrderContext) iPlaceTheOrder() error {
	httpClient := backend.NewHTTPClient(5 * time.Second)
	tokens := backend.NewTokenClient(backend.Credentials{
		TokenURL:     c.tokenSrv.URL,
		ClientID:     "portal",
		ClientSecret: "secret",
	}, httpClient, time.Second)

	w := app.NewWorkflow(
		tokens,
		orderbackend.NewOrderClient(c.orderSrv.URL, httpClient),
		adapter.NewCartServiceStore(c.cart),
		app.Config{AccountID: "ACC-1", AuthTimeout: 2 * time.Second, OrderTimeout: 2 * time.Second},
		nil,
	)
	c.receipt, c.err = w.Submit(context.Background())
	return nil
}

func (c *placeOrderContext) theOrderSucceeds(order, contract string) error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	if c.receipt.OrderNumber != order || c.receipt.ContractNumber != contract {
		return fmt.Errorf("expected (%s, %s), got %+v", order, contract, c.receipt)
	}
	return nil
}

func (c *placeOrderContext) theOrderFailsWithMessage(msg string) error {
	var se *domain.SubmitError
	if !errors.As(c.err, &se) {
		return fmt.Errorf("expected a submission error, got %v", c.err)
	}
	if se.Message != msg {
		return fmt.Errorf("expected message %q, got %q", msg, se.Message)
	}
	return nil
}

func (c *placeOrderContext) thePersistedCartIsEmpty() error {
	return c.thePersistedCartHolds(0)
}

func (c *placeOrderContext) thePersistedCartHolds(n int) error {
	persisted, err := c.carts.Load(context.Background())
	if err != nil {
		return err
	}
	if persisted.Len() != n {
		return fmt.Errorf("expected %d persisted lines, got %d", n, persisted.Len())
	}
	if c.cart.Snapshot().Len() != n {
		return fmt.Errorf("expected %d lines in memory, got %d", n, c.cart.Snapshot().Len())
	}
	return nil
}

func (c *placeOrderContext) theOrderEndpointReceived(lines int, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.orders) != 1 {
		return fmt.Errorf("expected one order request, got %d", len(c.orders))
	}
	got := c.orders[0]
	if got.lines != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, got.lines)
	}
	if !strings.EqualFold(got.auth, "Bearer "+token) {
		return fmt.Errorf("unexpected authorization %q", got.auth)
	}
	return nil
}

func (c *placeOrderContext) theTokenEndpointWasNotCalled() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokenCalls != 0 {
		return fmt.Errorf("token endpoint called %d times", c.tokenCalls)
	}
	return nil
}

func (c *placeOrderContext) theOrderEndpointWasNotCalled() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.orders) != 0 {
		return fmt.Errorf("order endpoint called %d times", len(c.orders))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &placeOrderContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.setup()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.teardown()
		return ctx, nil
	})

	// Given
	ctx.Step(`^the cart holds product "([^"]*)" with quantity (\d+) at price "([^"]*)"$`, tc.theCartHoldsProduct)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the token endpoint issues token "([^"]*)"$`, tc.theTokenEndpointIssuesToken)
	ctx.Step(`^the token endpoint rejects the client$`, tc.theTokenEndpointRejectsTheClient)
	ctx.Step(`^the order endpoint accepts with order "([^"]*)" and contract "([^"]*)"$`, tc.theOrderEndpointAccepts)
	ctx.Step(`^the order endpoint responds with status (\d+)$`, tc.theOrderEndpointRespondsWithStatus)
	ctx.Step(`^the order endpoint responds with status (\d+) and body:$`, tc.theOrderEndpointRespondsWithStatusAndBody)

	// When
	ctx.Step(`^I place the order$`, tc.iPlaceTheOrder)

	// Then
	ctx.Step(`^the order succeeds with order number "([^"]*)" and contract number "([^"]*)"$`, tc.theOrderSucceeds)
	ctx.Step(`^the order fails with message "([^"]*)"$`, tc.theOrderFailsWithMessage)
	ctx.Step(`^the persisted cart is empty$`, tc.thePersistedCartIsEmpty)
	ctx.Step(`^the persisted cart holds (\d+) lines?$`, tc.thePersistedCartHolds)
	ctx.Step(`^the order endpoint received (\d+) lines with bearer "([^"]*)"$`, tc.theOrderEndpointReceived)
	ctx.Step(`^the token endpoint was not called$`, tc.theTokenEndpointWasNotCalled)
	ctx.Step(`^the order endpoint was not called$`, tc.theOrderEndpointWasNotCalled)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"place_order.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
