package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/buttg/pkg/models"
	"go.uber.org/zap"
)

// DefaultKeyPrefix matches the key the storefront has always used for carts.
const DefaultKeyPrefix = "buttg-cart"

// Storage persists serialised carts. Update must run fn and write its result
// as one atomic step for the given key; a nil current value means nothing is
// stored yet.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}

// Store owns the carts of all sessions.
type Store struct {
	storage Storage
	prefix  string
	logger  *zap.Logger
}

func NewStore(storage Storage, prefix string, logger *zap.Logger) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		storage: storage,
		prefix:  prefix,
		logger:  logger,
	}
}

func (s *Store) key(session string) string {
	return fmt.Sprintf("%s:%s", s.prefix, session)
}

// Cart returns the current cart of session. Unreadable data yields an empty
// cart; only storage failures are returned as errors.
func (s *Store) Cart(ctx context.Context, session string) (Cart, error) {
	key := s.key(session)
	raw, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.decode(key, raw), nil
}

// Apply runs cmd against the stored cart of session and persists the result.
func (s *Store) Apply(ctx context.Context, session string, cmd Command) (Cart, error) {
	key := s.key(session)

	var next Cart
	err := s.storage.Update(ctx, key, func(current []byte) ([]byte, error) {
		next = Apply(s.decode(key, current), cmd)
		return Encode(next)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s cart: %w", cmd.Op, err)
	}

	s.logger.Debug("Cart updated",
		zap.String("session", session),
		zap.Stringer("op", cmd.Op),
		zap.Stringer("key", cmd.Key),
		zap.Int("lines", len(next)),
		zap.Int("count", next.Count()))
	return next, nil
}

func (s *Store) decode(key string, raw []byte) Cart {
	c, err := Decode(key, raw)
	if err != nil {
		var readErr *StorageReadError
		if errors.As(err, &readErr) {
			s.logger.Debug("Discarding unreadable cart", zap.String("key", key), zap.Error(err))
		}
		return Cart{}
	}
	return c
}

func (s *Store) AddToCart(ctx context.Context, session string, item models.MenuItem, quantity int, size *models.Size) (Cart, error) {
	return s.Apply(ctx, session, Add(item, quantity, size))
}

func (s *Store) RemoveFromCart(ctx context.Context, session, itemID, sizeName string) (Cart, error) {
	return s.Apply(ctx, session, Remove(itemID, sizeName))
}

func (s *Store) UpdateQuantity(ctx context.Context, session, itemID string, quantity int, sizeName string) (Cart, error) {
	return s.Apply(ctx, session, Update(itemID, quantity, sizeName))
}

func (s *Store) ClearCart(ctx context.Context, session string) error {
	_, err := s.Apply(ctx, session, Clear())
	return err
}
