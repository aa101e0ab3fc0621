package postgres

import (
	"time"

	"github.com/homeroot/mesh/services/listing/internal/domain"
)

type listingModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID   int64     `gorm:"column:owner_id"`
	Name      string    `gorm:"column:name"`
	Address   string    `gorm:"column:address"`
	Picture   string    `gorm:"column:picture"`
	Price     float64   `gorm:"column:price"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (listingModel) TableName() string { return "listings" }

func toDomainListing(rec listingModel) domain.Listing {
	return domain.Listing{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		Name:      rec.Name,
		Address:   rec.Address,
		Picture:   rec.Picture,
		Price:     rec.Price,
		Status:    domain.Status(rec.Status),
		CreatedAt: rec.CreatedAt,
	}
}
