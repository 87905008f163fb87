package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	ww "github.com/panyam/whisperwall"
)

// AutoMigrate runs database migrations for the whisperwall tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{})
}

// UserStore implements ww.UserStore using GORM.  Backend errors are
// translated into the package sentinels so callers never see driver types:
// open the DB with gorm.Config{TranslateError: true} so unique violations
// surface as gorm.ErrDuplicatedKey.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(ctx context.Context, user *ww.User) error {
	model := UserToModel(user)
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ww.ErrDuplicateUsername
		}
		return fmt.Errorf("%w: create user: %v", ww.ErrStoreUnavailable, err)
	}
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (s *UserStore) GetUserById(ctx context.Context, userId string) (*ww.User, error) {
	return s.first(ctx, "id = ?", userId)
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*ww.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserStore) GetUserByExternalId(ctx context.Context, externalId string) (*ww.User, error) {
	return s.first(ctx, "external_id = ?", externalId)
}

func (s *UserStore) SaveSecret(ctx context.Context, userId string, secret string) error {
	res := s.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", userId).
		Update("secret", secret)
	if res.Error != nil {
		return fmt.Errorf("%w: save secret: %v", ww.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ww.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) ListSecrets(ctx context.Context) ([]string, error) {
	var secrets []string
	err := s.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("secret IS NOT NULL AND secret <> ''").
		Pluck("secret", &secrets).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list secrets: %v", ww.ErrStoreUnavailable, err)
	}
	return secrets, nil
}

func (s *UserStore) first(ctx context.Context, query string, arg any) (*ww.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ww.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ww.ErrStoreUnavailable, err)
	}
	return model.ToUser(), nil
}
