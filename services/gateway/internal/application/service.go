package application

import (
	"log/slog"
	"time"

	"github.com/homeroot/mesh/platform/identity"
	"github.com/homeroot/mesh/services/gateway/internal/domain"
	"github.com/homeroot/mesh/services/gateway/internal/ports"
)

// Service implements the gateway's auth and user-administration use-cases.
type Service struct {
	cfg      Config
	users    ports.UserRepository
	lockouts ports.LockoutStore
	hasher   ports.PasswordHasher
	tokens   ports.TokenCodec
	logger   *slog.Logger
	nowFn    func() time.Time
}

type Dependencies struct {
	Config   Config
	Users    ports.UserRepository
	Lockouts ports.LockoutStore
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenCodec
	Logger   *slog.Logger
	NowFn    func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 10 * time.Hour
	}
	if cfg.FailedLoginThreshold <= 0 {
		cfg.FailedLoginThreshold = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.MaxAdmins <= 0 {
		cfg.MaxAdmins = 3
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = identity.RoleUser
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:      cfg,
		users:    deps.Users,
		lockouts: deps.Lockouts,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		logger:   logger,
		nowFn:    nowFn,
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		Token:     u.Token,
	}
}
