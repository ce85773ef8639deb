package repository

import (
	"context"
	"fmt"

	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/models"
	"github.com/example/buttg/pkg/notify"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OrderRepository stores order records and their notification status.
type OrderRepository struct {
	db *gorm.DB
}

// OpenDatabase connects to the configured driver and migrates the orders
// table.
func OpenDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(&models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) MarkNotification(ctx context.Context, orderID string, recipient notify.Recipient, status models.NotificationStatus) error {
	var column string
	switch recipient {
	case notify.RecipientCustomer:
		column = "customer_notification"
	case notify.RecipientRestaurant:
		column = "restaurant_notification"
	default:
		return fmt.Errorf("unknown recipient %q", recipient)
	}

	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update(column, status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	return &order, nil
}

// ListUndelivered returns orders with at least one notification that has not
// been sent, oldest first.
func (r *OrderRepository) ListUndelivered(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_notification <> ? OR restaurant_notification <> ?", models.NotificationSent, models.NotificationSent).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
