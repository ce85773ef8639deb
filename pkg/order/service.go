// Package order turns a checkout into a recorded order and the two emails
// that go with it.
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/buttg/pkg/events"
	"github.com/example/buttg/pkg/models"
	"github.com/example/buttg/pkg/notify"
	"go.uber.org/zap"
)

// Notifier delivers one message, retrying as it sees fit.
type Notifier interface {
	Dispatch(ctx context.Context, msg *notify.Message) error
}

// Recorder keeps an order record with per-recipient notification status.
type Recorder interface {
	Create(ctx context.Context, order *models.Order) error
	MarkNotification(ctx context.Context, orderID string, recipient notify.Recipient, status models.NotificationStatus) error
}

// ProofArchiver stores the payment screenshot and returns where it went.
type ProofArchiver interface {
	Archive(ctx context.Context, orderID string, proof notify.Attachment) (string, error)
}

type Publisher interface {
	PublishOrderSubmitted(ctx context.Context, event events.OrderSubmitted) error
}

type Auditor interface {
	Audit(ctx context.Context, action, orderID string, data map[string]any) error
}

// Settings carries the restaurant details that end up in the emails.
type Settings struct {
	RestaurantName    string
	RestaurantEmail   string
	RestaurantAddress string
	RestaurantPhone   string
	DeliveryFee       int64
	OrderPrefix       string
}

type Option func(*Service)

func WithRecorder(r Recorder) Option        { return func(s *Service) { s.recorder = r } }
func WithArchiver(a ProofArchiver) Option   { return func(s *Service) { s.archiver = a } }
func WithPublisher(p Publisher) Option      { return func(s *Service) { s.publisher = p } }
func WithAuditor(a Auditor) Option          { return func(s *Service) { s.auditor = a } }
func WithIDGenerator(g *IDGenerator) Option { return func(s *Service) { s.ids = g } }

type Service struct {
	settings  Settings
	notifier  Notifier
	ids       *IDGenerator
	recorder  Recorder
	archiver  ProofArchiver
	publisher Publisher
	auditor   Auditor
	logger    *zap.Logger
}

func NewService(settings Settings, notifier Notifier, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		settings: settings,
		notifier: notifier,
		ids:      NewIDGenerator(settings.OrderPrefix),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates req, records the order, sends the customer receipt and
// the restaurant alert, and returns the new order id. Both notifications are
// attempted even if the first fails; any failure yields a TransportError.
func (s *Service) Submit(ctx context.Context, req *Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	subtotal := req.Cart.Total()
	total := subtotal + s.settings.DeliveryFee
	if req.Total != 0 && req.Total != total {
		s.logger.Warn("Client total differs from cart total",
			zap.Int64("client_total", req.Total),
			zap.Int64("total", total))
	}

	orderID := s.ids.Next()
	logger := s.logger.With(zap.String("order_id", orderID))

	proof := notify.Attachment{
		Filename:    fmt.Sprintf("payment-%s%s", orderID, req.Proof.Extension()),
		ContentType: req.Proof.ContentType,
		Data:        req.Proof.Data,
	}

	record, err := newRecord(orderID, req, subtotal, s.settings.DeliveryFee, total)
	if err != nil {
		return "", err
	}
	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, orderID, proof)
		if err != nil {
			logger.Warn("Failed to archive payment proof", zap.Error(err))
		} else {
			record.ProofKey = key
		}
	}
	if s.recorder != nil {
		if err := s.recorder.Create(ctx, record); err != nil {
			logger.Error("Failed to record order", zap.Error(err))
		}
	}

	summary := s.summary(orderID, req, subtotal, total)

	customerMsg, err := notify.CustomerReceipt(summary)
	if err != nil {
		return "", err
	}
	restaurantMsg, err := notify.RestaurantAlert(summary, s.settings.RestaurantEmail, proof)
	if err != nil {
		return "", err
	}

	var failure error
	for _, msg := range []*notify.Message{customerMsg, restaurantMsg} {
		if err := s.send(ctx, orderID, msg); err != nil && failure == nil {
			failure = err
		}
	}
	if failure != nil {
		s.audit(ctx, "order_notification_failed", orderID, map[string]any{"error": failure.Error()})
		return "", failure
	}

	logger.Info("Order submitted",
		zap.String("email", req.Email),
		zap.Int("lines", len(req.Cart)),
		zap.Int64("total", total))

	if s.publisher != nil {
		event := events.OrderSubmitted{
			OrderID:     orderID,
			Items:       record.Items,
			Subtotal:    subtotal,
			DeliveryFee: s.settings.DeliveryFee,
			Total:       total,
			SubmittedAt: record.CreatedAt,
		}
		if err := s.publisher.PublishOrderSubmitted(ctx, event); err != nil {
			logger.Warn("Failed to publish order event", zap.Error(err))
		}
	}
	s.audit(ctx, "order_submitted", orderID, map[string]any{"total": total, "lines": len(req.Cart)})

	return orderID, nil
}

func (s *Service) send(ctx context.Context, orderID string, msg *notify.Message) error {
	err := s.notifier.Dispatch(ctx, msg)

	status := models.NotificationSent
	if err != nil {
		status = models.NotificationFailed
		s.logger.Error("Order notification failed",
			zap.String("order_id", orderID),
			zap.String("recipient", string(msg.Recipient)),
			zap.Error(err))
	}
	if s.recorder != nil {
		if markErr := s.recorder.MarkNotification(ctx, orderID, msg.Recipient, status); markErr != nil {
			s.logger.Warn("Failed to update notification status",
				zap.String("order_id", orderID),
				zap.Error(markErr))
		}
	}

	if err != nil {
		return &TransportError{OrderID: orderID, Recipient: msg.Recipient, Err: err}
	}
	return nil
}

func (s *Service) audit(ctx context.Context, action, orderID string, data map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Audit(ctx, action, orderID, data); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *Service) summary(orderID string, req *Request, subtotal, total int64) notify.OrderSummary {
	lines := make([]notify.OrderLine, len(req.Cart))
	for i, l := range req.Cart {
		lines[i] = notify.OrderLine{
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		}
		if l.SelectedSize != nil {
			lines[i].Size = l.SelectedSize.Name
		}
	}

	return notify.OrderSummary{
		OrderID:           orderID,
		RestaurantName:    s.settings.RestaurantName,
		RestaurantAddress: s.settings.RestaurantAddress,
		RestaurantPhone:   s.settings.RestaurantPhone,
		CustomerName:      req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		Notes:             req.Notes,
		Lines:             lines,
		Subtotal:          subtotal,
		DeliveryFee:       s.settings.DeliveryFee,
		Total:             total,
	}
}

func newRecord(orderID string, req *Request, subtotal, deliveryFee, total int64) (*models.Order, error) {
	items := make([]models.OrderItem, len(req.Cart))
	for i, l := range req.Cart {
		items[i] = models.OrderItem{
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
		}
		if l.SelectedSize != nil {
			items[i].Size = l.SelectedSize.Name
		}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize items: %w", err)
	}

	now := time.Now()
	return &models.Order{
		ID:                     orderID,
		CustomerName:           req.Name,
		Email:                  req.Email,
		Phone:                  req.Phone,
		Address:                req.Address,
		Notes:                  req.Notes,
		Items:                  string(itemsJSON),
		Subtotal:               subtotal,
		DeliveryFee:            deliveryFee,
		TotalAmount:            total,
		CustomerNotification:   models.NotificationPending,
		RestaurantNotification: models.NotificationPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}
