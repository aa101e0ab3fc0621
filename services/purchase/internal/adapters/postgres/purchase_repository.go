package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/homeroot/mesh/services/purchase/internal/domain"
	"github.com/homeroot/mesh/services/purchase/internal/ports"
)

type purchaseModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id"`
	ListingID   int64     `gorm:"column:listing_id"`
	Title       string    `gorm:"column:title"`
	Price       float64   `gorm:"column:price"`
	PurchasedAt time.Time `gorm:"column:purchased_at"`
}

func (purchaseModel) TableName() string { return "purchases" }

func toDomainPurchase(rec purchaseModel) domain.Purchase {
	return domain.Purchase{
		ID:          rec.ID,
		UserID:      rec.UserID,
		ListingID:   rec.ListingID,
		Title:       rec.Title,
		Price:       rec.Price,
		PurchasedAt: rec.PurchasedAt,
	}
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository returns the Postgres-backed purchase store.
func NewPurchaseRepository(db *gorm.DB) ports.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	rec := purchaseModel{
		UserID:      purchase.UserID,
		ListingID:   purchase.ListingID,
		Title:       purchase.Title,
		Price:       purchase.Price,
		PurchasedAt: purchase.PurchasedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Purchase{}, err
	}
	return toDomainPurchase(rec), nil
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	var recs []purchaseModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Purchase, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPurchase(rec))
	}
	return out, nil
}
