package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/catalog"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/notify"
	"github.com/example/buttg/pkg/order"
	"go.uber.org/zap/zaptest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []*notify.Message
}

func (f *fakeNotifier) Dispatch(_ context.Context, msg *notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			MaxUploadBytes: 1 << 20,
			RequestTimeout: 5 * time.Second,
		},
		Restaurant: config.RestaurantConfig{
			Name:        "Butt G Fast Foods",
			Email:       "kitchen@buttg.example",
			OrderPrefix: "BG",
			DeliveryFee: 100,
		},
		Cart: config.CartConfig{
			CookieName:   "buttg_session",
			CookieMaxAge: time.Hour,
		},
	}
}

type testEnv struct {
	gw       *Gateway
	notifier *fakeNotifier
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	notifier := &fakeNotifier{}
	svc := order.NewService(order.Settings{
		RestaurantName:  cfg.Restaurant.Name,
		RestaurantEmail: cfg.Restaurant.Email,
		DeliveryFee:     cfg.Restaurant.DeliveryFee,
		OrderPrefix:     cfg.Restaurant.OrderPrefix,
	}, notifier, logger)
	store := cart.NewStore(cart.NewMemoryStorage(), cart.DefaultKeyPrefix, logger)

	gw := NewGateway(cfg, logger, catalog.Default(), store, svc)
	gw.SetupRoutes()
	return &testEnv{gw: gw, notifier: notifier}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.RemoteAddr = "192.0.2.1:1234"
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.gw.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "buttg_session" {
			e.cookie = c
		}
	}
	return rec
}

func (e *testEnv) json(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e *testEnv) checkout(t *testing.T, fields map[string]string, screenshot []byte) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, checkoutRequest(t, fields, screenshot))
}

func checkoutRequest(t *testing.T, fields map[string]string, screenshot []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if screenshot != nil {
		fw, err := w.CreateFormFile("screenshot", "receipt.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		fw.Write(screenshot)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/orders", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func checkoutFields() map[string]string {
	return map[string]string{
		"name":    "Ali",
		"email":   "ali@example.com",
		"phone":   "03001234567",
		"address": "House 1, Street 2, Lahore",
		"total":   "1000",
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, testConfig())
	rec := env.json(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, testConfig())
	rec := env.json(t, http.MethodGet, "/api/v1/categories", nil)

	body := decode[struct{ Categories []string }](t, rec)
	if len(body.Categories) == 0 || body.Categories[0] != "All" {
		t.Fatalf("categories = %v", body.Categories)
	}
}

func TestListMenu(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.json(t, http.MethodGet, "/api/v1/menu?category=Pizzas&sort=price-low", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[struct {
		Items []struct {
			ID    string `json:"id"`
			Price int64  `json:"price"`
		} `json:"items"`
	}](t, rec)
	if len(body.Items) != 3 || body.Items[0].ID != "cheese-lover-pizza" {
		t.Fatalf("items = %+v", body.Items)
	}

	for _, q := range []string{"sort=random", "min_price=abc", "max_price=-1"} {
		if rec := env.json(t, http.MethodGet, "/api/v1/menu?"+q, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestMenuItem(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.json(t, http.MethodGet, "/api/v1/menu/zinger-burger", nil)
	body := decode[struct {
		Item    struct{ ID string }   `json:"item"`
		Related []struct{ ID string } `json:"related"`
	}](t, rec)
	if body.Item.ID != "zinger-burger" || len(body.Related) != 3 {
		t.Fatalf("body = %+v", body)
	}

	if rec := env.json(t, http.MethodGet, "/api/v1/menu/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown item status = %d", rec.Code)
	}
	if rec := env.json(t, http.MethodGet, "/api/v1/menu/popular", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "items") {
		t.Errorf("popular = %d %s", rec.Code, rec.Body)
	}
}

type cartBody struct {
	Items []struct {
		Item         struct{ ID string }    `json:"item"`
		Quantity     int                    `json:"quantity"`
		SelectedSize *struct{ Name string } `json:"selectedSize"`
		Price        int64                  `json:"price"`
	} `json:"items"`
	Total       int64 `json:"total"`
	Count       int   `json:"count"`
	DeliveryFee int64 `json:"deliveryFee"`
	GrandTotal  int64 `json:"grandTotal"`
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 2})
	if rec.Code != http.StatusOK || env.cookie == nil {
		t.Fatalf("add: %d %s cookie=%v", rec.Code, rec.Body, env.cookie)
	}
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 1})
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "chicken-tikka-pizza", "quantity": 1, "size": "Large"})
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "chicken-tikka-pizza", "quantity": 1})
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "deal-2", "quantity": 1})

	body := decode[cartBody](t, env.json(t, http.MethodGet, "/api/v1/cart", nil))
	if len(body.Items) != 4 {
		t.Fatalf("lines = %d, want 4", len(body.Items))
	}
	if body.Items[0].Quantity != 3 || body.Items[0].Price != 450 {
		t.Errorf("burger line = %+v", body.Items[0])
	}
	if body.Items[2].SelectedSize == nil || body.Items[2].SelectedSize.Name != "Small" {
		t.Errorf("default size line = %+v", body.Items[2])
	}
	wantTotal := int64(3*450 + 1500 + 800 + 500)
	if body.Total != wantTotal || body.Count != 6 || body.GrandTotal != wantTotal+100 {
		t.Errorf("totals = %d/%d/%d", body.Total, body.Count, body.GrandTotal)
	}

	env.json(t, http.MethodPut, "/api/v1/cart/items/chicken-tikka-pizza", map[string]any{"quantity": 0, "size": "Large"})
	env.json(t, http.MethodDelete, "/api/v1/cart/items/deal-2", nil)
	body = decode[cartBody](t, env.json(t, http.MethodGet, "/api/v1/cart", nil))
	if len(body.Items) != 2 || body.Count != 4 {
		t.Fatalf("after remove = %+v", body)
	}

	body = decode[cartBody](t, env.json(t, http.MethodDelete, "/api/v1/cart", nil))
	if len(body.Items) != 0 || body.Total != 0 || body.GrandTotal != 0 {
		t.Fatalf("after clear = %+v", body)
	}
}

func TestAddCartItemRejected(t *testing.T) {
	env := newTestEnv(t, testConfig())

	tests := []struct {
		body map[string]any
		code int
	}{
		{map[string]any{"itemId": "zinger-burger", "quantity": 0}, http.StatusBadRequest},
		{map[string]any{"itemId": "zinger-burger", "quantity": -2}, http.StatusBadRequest},
		{map[string]any{"itemId": "zinger-burger", "quantity": 100}, http.StatusBadRequest},
		{map[string]any{"itemId": "zinger-burger", "quantity": int64(math.MaxInt64)}, http.StatusBadRequest},
		{map[string]any{"itemId": "zinger-burger", "quantity": 1, "size": "Large"}, http.StatusBadRequest},
		{map[string]any{"itemId": "chicken-tikka-pizza", "quantity": 1, "size": "Huge"}, http.StatusBadRequest},
		{map[string]any{"itemId": "missing", "quantity": 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := env.json(t, http.MethodPost, "/api/v1/cart/items", tt.body); rec.Code != tt.code {
			t.Errorf("%v: status = %d, want %d", tt.body, rec.Code, tt.code)
		}
	}
}

func TestCartQuantityBounded(t *testing.T) {
	env := newTestEnv(t, testConfig())

	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 60})
	body := decode[cartBody](t, env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 60}))
	if len(body.Items) != 1 || body.Items[0].Quantity != cart.MaxQuantity {
		t.Fatalf("merged line = %+v", body.Items)
	}
	if body.Total != 450*cart.MaxQuantity || body.Count != cart.MaxQuantity {
		t.Errorf("totals = %d/%d", body.Total, body.Count)
	}

	for _, q := range []int64{100, -1, math.MaxInt64} {
		rec := env.json(t, http.MethodPut, "/api/v1/cart/items/zinger-burger", map[string]any{"quantity": q})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("update to %d: status = %d, want 400", q, rec.Code)
		}
	}

	body = decode[cartBody](t, env.json(t, http.MethodGet, "/api/v1/cart", nil))
	if len(body.Items) != 1 || body.Items[0].Quantity != cart.MaxQuantity {
		t.Fatalf("cart after rejected updates = %+v", body.Items)
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 2})

	rec := env.checkout(t, checkoutFields(), pngHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}](t, rec)
	if !body.Success || !strings.HasPrefix(body.OrderID, "BG") {
		t.Fatalf("body = %+v", body)
	}

	if len(env.notifier.sent) != 2 {
		t.Fatalf("sent %d messages", len(env.notifier.sent))
	}
	alert := env.notifier.sent[1]
	if alert.Subject != "NEW ORDER #"+body.OrderID+" - Rs 1000" {
		t.Errorf("alert subject = %q", alert.Subject)
	}

	cartAfter := decode[cartBody](t, env.json(t, http.MethodGet, "/api/v1/cart", nil))
	if len(cartAfter.Items) != 0 {
		t.Errorf("cart not cleared: %+v", cartAfter.Items)
	}
}

func TestCheckoutPostedCart(t *testing.T) {
	env := newTestEnv(t, testConfig())
	fields := checkoutFields()
	fields["cart"] = `[{"item":{"id":"zinger-burger","name":"Zinger Burger","price":450,"category":"Burgers"},"quantity":2,"price":450}]`

	rec := env.checkout(t, fields, pngHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	fields["cart"] = `{not json`
	if rec := env.checkout(t, fields, pngHeader); rec.Code != http.StatusBadRequest {
		t.Errorf("bad cart status = %d", rec.Code)
	}
}

func TestCheckoutPostedCartUsesCatalogPrices(t *testing.T) {
	env := newTestEnv(t, testConfig())
	fields := checkoutFields()
	fields["cart"] = `[{"item":{"id":"zinger-burger","name":"Cheap Burger","price":1,"category":"Nope"},"quantity":10,"price":1},` +
		`{"item":{"id":"chicken-tikka-pizza","price":1},"quantity":1,"selectedSize":{"name":"Large","price":1},"price":1}]`

	rec := env.checkout(t, fields, pngHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[struct {
		OrderID string `json:"orderId"`
	}](t, rec)
	alert := env.notifier.sent[1]
	if want := "NEW ORDER #" + body.OrderID + " - Rs 6100"; alert.Subject != want {
		t.Errorf("alert subject = %q, want %q", alert.Subject, want)
	}

	tests := map[string]string{
		"unknown item": `[{"item":{"id":"no-such-item","category":"Nope"},"quantity":1,"price":0}]`,
		"unknown size": `[{"item":{"id":"chicken-tikka-pizza"},"quantity":1,"selectedSize":{"name":"Huge","price":1},"price":1}]`,
		"sized burger": `[{"item":{"id":"zinger-burger"},"quantity":1,"selectedSize":{"name":"Large","price":1},"price":1}]`,
	}
	for name, raw := range tests {
		fields["cart"] = raw
		if rec := env.checkout(t, fields, pngHeader); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
	if len(env.notifier.sent) != 2 {
		t.Errorf("rejected carts reached the notifier: %d messages", len(env.notifier.sent))
	}
}

func TestCheckoutValidation(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 1})

	rec := env.checkout(t, checkoutFields(), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing screenshot status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payment screenshot is required") {
		t.Errorf("body = %s", rec.Body)
	}

	fields := checkoutFields()
	fields["address"] = ""
	rec = env.checkout(t, fields, pngHeader)
	body := decode[struct {
		Error string `json:"error"`
	}](t, rec)
	if rec.Code != http.StatusBadRequest || body.Error != "address is required" {
		t.Errorf("empty address = %d %q", rec.Code, body.Error)
	}

	if len(env.notifier.sent) != 0 {
		t.Errorf("notifier called for invalid checkout")
	}
}

func TestCheckoutTransportFailure(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.notifier.err = errors.New("smtp down")
	env.json(t, http.MethodPost, "/api/v1/cart/items", map[string]any{"itemId": "zinger-burger", "quantity": 1})

	rec := env.checkout(t, checkoutFields(), pngHeader)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "orderId") {
		t.Errorf("order id leaked on failure: %s", rec.Body)
	}

	cartAfter := decode[cartBody](t, env.json(t, http.MethodGet, "/api/v1/cart", nil))
	if len(cartAfter.Items) != 1 {
		t.Errorf("cart cleared after failed order")
	}
}

func TestCheckoutRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = 0.001
	cfg.HTTP.RateBurst = 1
	env := newTestEnv(t, cfg)

	if rec := env.checkout(t, checkoutFields(), nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := env.checkout(t, checkoutFields(), nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
}

func TestCheckoutRateLimitIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = 0.001
	cfg.HTTP.RateBurst = 1
	env := newTestEnv(t, cfg)

	for i, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := checkoutRequest(t, checkoutFields(), nil)
		req.Header.Set("X-Forwarded-For", ip)
		req.Header.Set("X-Real-IP", ip)
		rec := env.do(t, req)
		if i > 0 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d from spoofed %s: status = %d, want 429", i, ip, rec.Code)
		}
	}
}

func TestCheckoutRateLimitTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = 0.001
	cfg.HTTP.RateBurst = 1
	cfg.HTTP.TrustedProxies = []string{"192.0.2.0/24"}
	env := newTestEnv(t, cfg)

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		req := checkoutRequest(t, checkoutFields(), nil)
		req.Header.Set("X-Forwarded-For", ip)
		if rec := env.do(t, req); rec.Code != http.StatusBadRequest {
			t.Errorf("client %s behind trusted proxy: status = %d, want 400", ip, rec.Code)
		}
	}
}

func TestSwaggerDoc(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rec := env.json(t, http.MethodGet, "/swagger/doc.json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := decode[struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}](t, rec)
	if doc.Swagger != "2.0" {
		t.Errorf("swagger = %q", doc.Swagger)
	}
	for _, path := range []string{"/api/orders", "/api/v1/cart/items", "/api/v1/menu"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc is missing %s", path)
		}
	}
}
