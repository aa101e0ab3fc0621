package postgres

import (
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
)

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password_hash"`
	FullName     string    `gorm:"column:full_name"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(rec userModel) domain.User {
	role, ok := identity.ParseRole(rec.Role)
	if !ok {
		role = identity.RoleUser
	}
	return domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		FullName:     rec.FullName,
		Role:         role,
		CreatedAt:    rec.CreatedAt,
	}
}
