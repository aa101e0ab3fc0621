package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/homeroot/mesh/services/listing/internal/domain"
	"github.com/homeroot/mesh/services/listing/internal/ports"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns the Postgres-backed catalog store.
func NewListingRepository(db *gorm.DB) ports.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	rec := listingModel{
		OwnerID:   listing.OwnerID,
		Name:      listing.Name,
		Address:   listing.Address,
		Picture:   listing.Picture,
		Price:     listing.Price,
		Status:    string(listing.Status),
		CreatedAt: listing.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Listing{}, domain.ErrConflict
		}
		return domain.Listing{}, err
	}
	return toDomainListing(rec), nil
}

func (r *listingRepository) Update(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	res := r.db.WithContext(ctx).Model(&listingModel{}).
		Where("id = ?", listing.ID).
		Updates(map[string]any{
			"name":    listing.Name,
			"address": listing.Address,
			"picture": listing.Picture,
			"price":   listing.Price,
		})
	if res.Error != nil {
		return domain.Listing{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Listing{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, listing.ID)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (domain.Listing, error) {
	var rec listingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, err
	}
	return toDomainListing(rec), nil
}

func (r *listingRepository) List(ctx context.Context) ([]domain.Listing, error) {
	var recs []listingModel
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainListing(rec))
	}
	return out, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	var recs []listingModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainListing(rec))
	}
	return out, nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Listing, error) {
	res := r.db.WithContext(ctx).Model(&listingModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return domain.Listing{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Listing{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&listingModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
