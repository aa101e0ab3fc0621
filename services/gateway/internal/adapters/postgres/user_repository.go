package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns the Postgres-backed credential store.
func NewUserRepository(db *gorm.DB) ports.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	rec := userModel{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var recs []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, toDomainUser(rec))
	}
	return users, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, username string, role identity.Role) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", username).
		Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateNameAndRole(ctx context.Context, id int64, fullName string, role identity.Role) (domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"full_name": fullName, "role": string(role)})
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("role = ?", string(role)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
