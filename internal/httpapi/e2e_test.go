package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/bookcheckout/internal/checkout"
	"github.com/nikolayk812/bookcheckout/internal/domain"
	"github.com/nikolayk812/bookcheckout/internal/fulfillment"
	"github.com/nikolayk812/bookcheckout/internal/httpapi"
	"github.com/nikolayk812/bookcheckout/internal/payment"
	"github.com/nikolayk812/bookcheckout/internal/repository"
	"github.com/nikolayk812/bookcheckout/internal/testpg"
	"github.com/nikolayk812/bookcheckout/internal/webhook"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
	"golang.org/x/text/currency"
)

const e2eWebhookSecret = "whsec_e2e"

// recordingGateway opens sessions without a network call and keeps the last request.
type recordingGateway struct {
	mu   sync.Mutex
	last domain.PaymentSessionRequest
}

func (g *recordingGateway) CreateCheckoutSession(_ context.Context, req domain.PaymentSessionRequest) (domain.PaymentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.last = req
	id := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.PaymentSession{
		ID:         id,
		URL:        "https://checkout.stripe.com/c/pay/" + id,
		SuccessURL: "https://shop/success",
		CancelURL:  "https://shop/cancel",
	}, nil
}

func (g *recordingGateway) lastRequest() domain.PaymentSessionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

type e2eSuite struct {
	suite.Suite

	pg      *testpg.Postgres
	gateway *recordingGateway
	app     *fiber.App

	user    domain.User
	address domain.Address
	book    domain.Book
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(e2eSuite))
}

func (suite *e2eSuite) SetupSuite() {
	var err error

	suite.pg, err = testpg.Start(suite.T().Context())
	suite.Require().NoError(err)
}

func (suite *e2eSuite) TearDownSuite() {
	suite.NoError(suite.pg.Terminate(suite.T().Context()))
}

func (suite *e2eSuite) SetupTest() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.pg.Truncate(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool := suite.pg.Pool

	suite.gateway = &recordingGateway{}

	orchestrator, err := checkout.NewOrchestrator(checkout.Deps{
		Orders:    repository.NewOrder(pool),
		Users:     repository.NewUser(pool),
		Addresses: repository.NewAddress(pool),
		Gateway:   suite.gateway,
		Logger:    logger,
	}, currency.EUR, time.Second)
	require.NoError(t, err)

	verifier, err := payment.NewStripeGateway(payment.Config{
		APIKey:        "sk_test_e2e",
		WebhookSecret: e2eWebhookSecret,
		Timeout:       time.Second,
		Tolerance:     5 * time.Minute,
	}, logger)
	require.NoError(t, err)

	intake := webhook.NewIntake(verifier, fulfillment.NewMaterializer(repository.NewUnitOfWork(pool), logger, nil), logger, nil)

	s, err := httpapi.NewServer(httpapi.Deps{
		Checkout: orchestrator,
		Webhooks: intake,
		Orders:   repository.NewOrder(pool),
		DB:       pool,
		Logger:   logger,
		Auth:     headerAuth,
	})
	require.NoError(t, err)
	suite.app = s.App()

	suite.user, err = suite.pg.InsertUser(ctx, domain.RoleUser)
	require.NoError(t, err)
	suite.address, err = suite.pg.InsertAddress(ctx, suite.user.ID)
	require.NoError(t, err)
	suite.book, err = suite.pg.InsertBook(ctx, decimal.RequireFromString("9.99"))
	require.NoError(t, err)

	require.NoError(t, repository.NewCart(pool).AddItem(ctx, suite.user.ID, suite.book.ID, 1))
}

func (suite *e2eSuite) TestCheckoutThenPaymentCompletesOrder() {
	t := suite.T()
	ctx := t.Context()

	orderID := suite.checkout(suite.book.Price)

	status, body := do(t, suite.app, suite.get("/orders/"+orderID.String()))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, "0.00", body["total"])

	correlation := suite.gateway.lastRequest().Correlation
	assert.Equal(t, orderID, correlation.OrderID)

	suite.deliver(suite.chargeSucceeded("evt_e2e_1", correlation), http.StatusCreated)

	status, body = do(t, suite.app, suite.get("/orders/"+orderID.String()))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "9.99", body["total"])
	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, "https://pay.stripe.com/receipts/e2e", body["receipt_url"])
	assert.Equal(t, []any{map[string]any{
		"book_id":  float64(suite.book.ID),
		"quantity": float64(1),
		"price":    "9.99",
	}}, body["books"])

	cartSize, err := suite.pg.CountCartBooks(ctx, suite.user.ID)
	require.NoError(t, err)
	assert.Zero(t, cartSize)

	// redelivery of the same event and a second event for the same order are both no-ops
	suite.deliver(suite.chargeSucceeded("evt_e2e_1", correlation), http.StatusCreated)
	suite.deliver(suite.chargeSucceeded("evt_e2e_2", correlation), http.StatusCreated)

	orderBooks, err := suite.pg.CountOrderBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, orderBooks)

	outbox, err := suite.pg.CountOutbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, outbox)
}

func (suite *e2eSuite) TestStaleSnapshotPriceIsIgnored() {
	t := suite.T()

	orderID := suite.checkout(decimal.RequireFromString("1.00"))

	req := suite.gateway.lastRequest()
	require.Len(t, req.Lines, 1)
	assert.Equal(t, int64(100), req.Lines[0].UnitPrice.MinorUnits(), "payment line is built from the client snapshot")

	suite.deliver(suite.chargeSucceeded("evt_e2e_stale_price", req.Correlation), http.StatusCreated)

	status, body := do(t, suite.app, suite.get("/orders/"+orderID.String()))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "9.99", body["total"], "order total comes from the catalog price")
	assert.Equal(t, []any{map[string]any{
		"book_id":  float64(suite.book.ID),
		"quantity": float64(1),
		"price":    "9.99",
	}}, body["books"])
}

func (suite *e2eSuite) TestTamperedWebhookLeavesOrderPending() {
	t := suite.T()

	orderID := suite.checkout(suite.book.Price)
	ev := suite.chargeSucceeded("evt_e2e_tampered", suite.gateway.lastRequest().Correlation)

	tampered := bytes.Replace(ev.payload, []byte("receipts/e2e"), []byte("receipts/evil"), 1)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(tampered))
	req.Header.Set("Stripe-Signature", ev.header)

	status, body := do(t, suite.app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "webhook error", body["message"])

	status, body = do(t, suite.app, suite.get("/orders/"+orderID.String()))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING", body["status"])
}

func (suite *e2eSuite) TestWebhookForUnknownOrder() {
	correlation := domain.Correlation{OrderID: uuid.New(), UserID: suite.user.ID, AddressID: suite.address.ID}

	suite.deliver(suite.chargeSucceeded("evt_e2e_unknown", correlation), http.StatusNotFound)
}

func (suite *e2eSuite) TestListUserOrders() {
	t := suite.T()

	first := suite.checkout(suite.book.Price)
	second := suite.checkout(suite.book.Price)
	suite.deliver(suite.chargeSucceeded("evt_e2e_list", suite.gateway.lastRequest().Correlation), http.StatusCreated)

	resp, err := suite.app.Test(suite.get("/users/"+strconv.FormatInt(suite.user.ID, 10)+"/orders?status=PENDING"), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), first.String())
	assert.NotContains(t, string(raw), second.String())
}

// checkout posts the cart with price as the client snapshot price of the book.
func (suite *e2eSuite) checkout(price decimal.Decimal) uuid.UUID {
	t := suite.T()

	body, err := json.Marshal(domain.CheckoutRequest{
		CartItems: []domain.CheckoutItem{{
			Book: domain.BookSnapshot{
				ID:    &suite.book.ID,
				Title: &suite.book.Title,
				Image: lo.ToPtr("https://img/1.png"),
				Price: &price,
			},
			Quantity: 1,
		}},
		AddressID: suite.address.ID,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders/checkout-session/"+strconv.FormatInt(suite.user.ID, 10), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	status, resp := do(t, suite.app, asUser(req, suite.user.ID, ""))
	require.Equal(t, http.StatusOK, status, resp)

	orderID, err := uuid.Parse(resp["order_id"].(string))
	require.NoError(t, err)

	return orderID
}

func (suite *e2eSuite) get(path string) *http.Request {
	return asUser(httptest.NewRequest(http.MethodGet, path, nil), suite.user.ID, "")
}

type signedEvent struct {
	payload []byte
	header  string
}

func (suite *e2eSuite) chargeSucceeded(eventID string, c domain.Correlation) signedEvent {
	payload := []byte(`{
  "id": "` + eventID + `",
  "object": "event",
  "type": "charge.succeeded",
  "data": {
    "object": {
      "id": "ch_e2e",
      "object": "charge",
      "receipt_url": "https://pay.stripe.com/receipts/e2e",
      "metadata": {
        "orderId": "` + c.OrderID.String() + `",
        "userId": "` + strconv.FormatInt(c.UserID, 10) + `",
        "addressId": "` + strconv.FormatInt(c.AddressID, 10) + `"
      }
    }
  }
}`)

	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    e2eWebhookSecret,
		Timestamp: time.Now(),
	})

	return signedEvent{payload: payload, header: signed.Header}
}

func (suite *e2eSuite) deliver(ev signedEvent, wantStatus int) {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(ev.payload))
	req.Header.Set("Stripe-Signature", ev.header)

	status, body := do(suite.T(), suite.app, req)
	suite.Require().Equal(wantStatus, status, body)
}
