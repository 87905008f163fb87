package gorm

import (
	"time"

	ww "github.com/panyam/whisperwall"
)

// UserModel is the GORM model for users.  Username and ExternalId are
// nullable pointers so the unique indexes tolerate the rows that legitimately
// lack them (OAuth-only users have no username, local users no external id).
type UserModel struct {
	ID           string  `gorm:"primaryKey;size:64"`
	Username     *string `gorm:"uniqueIndex;size:255"`
	PasswordHash string  `gorm:"size:128"`
	ExternalId   *string `gorm:"uniqueIndex;size:255"`
	Secret       *string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToUser() *ww.User {
	return &ww.User{
		Id:           m.ID,
		Username:     strOrEmpty(m.Username),
		PasswordHash: m.PasswordHash,
		ExternalId:   strOrEmpty(m.ExternalId),
		Secret:       strOrEmpty(m.Secret),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func UserToModel(u *ww.User) *UserModel {
	return &UserModel{
		ID:           u.Id,
		Username:     strOrNil(u.Username),
		PasswordHash: u.PasswordHash,
		ExternalId:   strOrNil(u.ExternalId),
		Secret:       strOrNil(u.Secret),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
