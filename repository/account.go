package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meinhoongagan/kure-api/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrAccountExists    = errors.New("account with this email or mobile already exists")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	MarkVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, hash string) (int64, error)
}

type ProviderRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Provider, error)
	FindByEmail(ctx context.Context, email string) (*models.Provider, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
	UpdatePassword(ctx context.Context, email, hash string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountExists
	}
	return err
}

func (r *userRepository) MarkVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("is_verified", true).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, hash string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("password", hash)
	return result.RowsAffected, result.Error
}

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) FindByID(ctx context.Context, id uint) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).First(&provider, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByEmail(ctx context.Context, email string) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByMobile(ctx context.Context, mobile string) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) Create(ctx context.Context, provider *models.Provider) error {
	err := r.db.WithContext(ctx).Create(provider).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountExists
	}
	return err
}

func (r *providerRepository) UpdatePassword(ctx context.Context, email, hash string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("email = ?", email).
		Update("password", hash)
	return result.RowsAffected, result.Error
}
