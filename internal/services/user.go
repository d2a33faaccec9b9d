package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/interfaces"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const MIN_PASSWORD_LENGTH = 8

type ServiceUser struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
	limiter    interfaces.Limiter
	auth       *Authentication
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	lim, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	auth, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, postgresDB, cache, lim, auth}, nil
}

type RegisterInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Role           models.UserRole `json:"role"`
	ProfilePicture *string         `json:"profile_picture"`
}

// Register creates a restaurant or influencer account. Admin accounts are
// seeded out of band and can never be self-registered.
func (service *ServiceUser) Register(ctx context.Context, ip string, input RegisterInput) (*models.User, string, error) {
	if err := service.allowAuthAttempt(ctx, ip); err != nil {
		return nil, "", err
	}

	if input.Role != models.RoleRestaurant && input.Role != models.RoleInfluencer {
		return nil, "", errorx.Wrap(errors.New("role must be restaurant or influencer"), errorx.Validation)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, "", errorx.Wrap(errors.New("name is required"), errorx.Validation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", errorx.Wrap(errors.New("invalid email"), errorx.Validation)
	}

	if len(input.Password) < MIN_PASSWORD_LENGTH {
		return nil, "", errorx.Wrap(errors.New("password too short"), errorx.Validation)
	}

	existing, err := datastore.FindUserByEmail(ctx, service.postgresDB, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}
	if existing != nil {
		return nil, "", errorx.Wrap(errors.New("email already registered"), errorx.Invalid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	now := time.Now()
	user := &models.User{
		Name:           input.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           input.Role,
		ProfilePicture: input.ProfilePicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	user, err = datastore.CreateUser(ctx, service.postgresDB, user)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	token, err := service.auth.CreateToken(user)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	return user, token, nil
}

func (service *ServiceUser) Login(ctx context.Context, ip string, email, password string) (*models.User, string, error) {
	if err := service.allowAuthAttempt(ctx, ip); err != nil {
		return nil, "", err
	}

	user, err := datastore.FindUserByEmail(ctx, service.postgresDB, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", errorx.Wrap(errors.New("invalid credentials"), errorx.Authn)
		}
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errorx.Wrap(errors.New("invalid credentials"), errorx.Authn)
	}

	token, err := service.auth.CreateToken(user)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.Service)
	}

	return user, token, nil
}

func (service *ServiceUser) Logout(ctx context.Context, token string) error {
	return service.auth.Revoke(ctx, token)
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	callback := func() (*models.User, error) {
		user, err := datastore.FindUserByID(ctx, service.postgresDB, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
			}
			return nil, errorx.Wrap(err, errorx.Service)
		}
		return user, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyUser(userID), CACHE_TTL_5_MINS, callback)
}

type UpdateProfileInput struct {
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

// UpdateProfile changes the mutable profile fields. Email, role and password
// never move through here.
func (service *ServiceUser) UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errorx.Wrap(errors.New("name is required"), errorx.Validation)
	}

	user.Name = input.Name
	user.ProfilePicture = input.ProfilePicture
	user.UpdatedAt = time.Now()

	user, err := datastore.UpdateUserProfile(ctx, service.postgresDB, user)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyUser(user.ID))
	return user, nil
}

// ResolveUser turns the token identity into the persisted account.
func (service *ServiceUser) ResolveUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}
	return service.FindUserByID(ctx, userAuth.ID)
}

func (service *ServiceUser) allowAuthAttempt(ctx context.Context, ip string) error {
	err := service.limiter.Allow(ctx, LimitKeyAuth(ip), redis_rate.PerMinute(AUTH_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return errorx.Wrap(err, errorx.RateLimiting)
		}
		return errorx.Wrap(err, errorx.Service)
	}
	return nil
}
