// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stajtalk/chat-backend/internal/domain"
)

// CreateUser inserts a new user row with a fresh UUID and UTC timestamp.
func CreateUser(db *gorm.DB, nickname string) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		CreatedAt: time.Now().UTC(),
	}
	return u, db.Create(u).Error
}

// GetUser fetches a user by ID. Returns gorm.ErrRecordNotFound when absent.
func GetUser(db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
