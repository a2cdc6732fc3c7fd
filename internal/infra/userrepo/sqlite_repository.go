package userrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/climalab/clima-chat/internal/domain/auth"
)

type userRow struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

// SQLiteRepository persists users on a local SQLite file via GORM.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository migrates the users table on the shared GORM handle.
func NewSQLiteRepository(db *gorm.DB) (*SQLiteRepository, error) {
	if err := db.AutoMigrate(&userRow{}); err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

// Create inserts a new user row.
func (r *SQLiteRepository) Create(ctx context.Context, email, nickname, passwordHash string) (auth.User, error) {
	row := userRow{Email: email, Nickname: nickname, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
			return auth.User{}, auth.ErrEmailExists
		}
		return auth.User{}, err
	}
	return toUser(row), nil
}

// GetByEmail fetches a user by email.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	return toUser(row), true, nil
}

// GetByID fetches by primary key.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	return toUser(row), true, nil
}

func toUser(row userRow) auth.User {
	return auth.User{
		ID:           row.ID,
		Email:        row.Email,
		Nickname:     row.Nickname,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

var _ auth.Repository = (*SQLiteRepository)(nil)
