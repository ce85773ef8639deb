package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeMailer struct {
	mu       sync.Mutex
	failures int
	sent     []*Message
	calls    int
}

func (f *fakeMailer) Send(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("421 service not available")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func summary() OrderSummary {
	return OrderSummary{
		OrderID:        "BG1700000000000",
		RestaurantName: "Butt G Fast Foods",
		CustomerName:   "Ali <script>",
		Email:          "ali@example.com",
		Phone:          "03001234567",
		Address:        "House 1, Lahore",
		Lines: []OrderLine{
			{Name: "Zinger Burger", Quantity: 2, Subtotal: 900},
			{Name: "Chicken Tikka Pizza", Size: "Large", Quantity: 1, Subtotal: 1500},
		},
		Subtotal:    2400,
		DeliveryFee: 100,
		Total:       2500,
	}
}

func TestCustomerReceipt(t *testing.T) {
	msg, err := CustomerReceipt(summary())
	if err != nil {
		t.Fatalf("CustomerReceipt: %v", err)
	}

	if msg.To != "ali@example.com" || msg.Recipient != RecipientCustomer {
		t.Errorf("unexpected addressing %+v", msg)
	}
	if msg.Subject != "Order Confirmation #BG1700000000000 - Butt G Fast Foods" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"2x Zinger Burger", "(Large)", "Rs 1500/-", "Rs 2500/-", "House 1, Lahore"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("receipt is missing %q", want)
		}
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("customer input was not escaped")
	}
	if strings.Contains(msg.HTML, "Notes:") {
		t.Error("empty notes should be omitted")
	}
	if len(msg.Attachments) != 0 {
		t.Error("receipt should not carry attachments")
	}
}

func TestRestaurantAlert(t *testing.T) {
	s := summary()
	s.Notes = "Extra ketchup"
	proof := Attachment{Filename: "payment-BG1700000000000.png", Data: []byte{0x89, 'P', 'N', 'G'}}

	msg, err := RestaurantAlert(s, "kitchen@example.com", proof)
	if err != nil {
		t.Fatalf("RestaurantAlert: %v", err)
	}

	if msg.Subject != "NEW ORDER #BG1700000000000 - Rs 2500" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if msg.To != "kitchen@example.com" || len(msg.Attachments) != 1 {
		t.Errorf("unexpected message %+v", msg)
	}
	if !strings.Contains(msg.HTML, "Extra ketchup") || !strings.Contains(msg.HTML, "ali@example.com") {
		t.Error("alert is missing customer details")
	}
}

func TestDispatcherRetriesTransientFailures(t *testing.T) {
	mailer := &fakeMailer{failures: 2}
	d, err := NewDispatcher(mailer, fastPolicy(), 5*time.Second, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	msg := &Message{Recipient: RecipientCustomer, To: "ali@example.com", Subject: "hi"}
	if err := d.Dispatch(context.Background(), msg); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if mailer.calls != 3 || len(mailer.sent) != 1 {
		t.Errorf("expected 3 calls and 1 delivery, got %d and %d", mailer.calls, len(mailer.sent))
	}
}

func TestDispatcherGivesUp(t *testing.T) {
	mailer := &fakeMailer{failures: 10}
	d, err := NewDispatcher(mailer, fastPolicy(), 5*time.Second, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	err = d.Dispatch(context.Background(), &Message{Recipient: RecipientRestaurant, To: "k@example.com"})
	if err == nil {
		t.Fatal("expected dispatch error")
	}
	if mailer.calls != 3 {
		t.Errorf("expected 1 attempt plus 2 retries, got %d", mailer.calls)
	}
}

func TestDispatcherHonoursExpiredContext(t *testing.T) {
	d, err := NewDispatcher(&fakeMailer{}, fastPolicy(), time.Second, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	if err := d.Dispatch(ctx, &Message{To: "x@example.com"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcherZeroTimeoutDefersToContext(t *testing.T) {
	mailer := &fakeMailer{failures: 1}
	d, err := NewDispatcher(mailer, fastPolicy(), 0, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Close()

	if err := d.Dispatch(context.Background(), &Message{Recipient: RecipientCustomer, To: "ali@example.com"}); err != nil {
		t.Fatalf("Dispatch without deadline: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Dispatch(ctx, &Message{Recipient: RecipientRestaurant, To: "k@example.com"}); err != nil {
		t.Fatalf("Dispatch with deadline: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Errorf("expected 2 deliveries, got %d", len(mailer.sent))
	}
}

func TestBuildMsgKeepsAttachmentContentType(t *testing.T) {
	msg := &Message{
		Recipient: RecipientRestaurant,
		To:        "kitchen@example.com",
		Subject:   "NEW ORDER",
		HTML:      "<p>order</p>",
		Attachments: []Attachment{
			{Filename: "payment-screenshot", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n")},
		},
	}

	em, err := buildMsg("orders@example.com", msg)
	if err != nil {
		t.Fatalf("buildMsg: %v", err)
	}
	var buf bytes.Buffer
	if _, err := em.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !strings.Contains(buf.String(), "Content-Type: image/png") {
		t.Errorf("attachment content type not kept:\n%s", buf.String())
	}

	if _, err := buildMsg("orders@example.com", &Message{To: "not an address"}); err == nil {
		t.Error("expected invalid recipient error")
	}
}
