package models

import (
	"context"
	"errors"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/utils"
)

type User struct {
	ID             int       `gorm:"primary_key" json:"id"`
	Username       string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	FullName       string    `gorm:"size:100;not null" json:"full_name"`
	Role           UserRole  `gorm:"size:20;not null;default:'staff'" json:"role"`
	IsActive       *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login verifies credentials and issues a JWT.
func Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("username = ?", input.Username).First(&user).Error; err != nil {
		return nil, errors.New("invalid username or password")
	}
	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("user is inactive")
	}
	if err := utils.ComparePassword(user.HashedPassword, input.Password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: &user}, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

// SeedDefaultUsers creates the default admin/staff users when missing.
func SeedDefaultUsers(ctx context.Context) error {
	defaults := []struct {
		username string
		password string
		fullName string
		role     UserRole
	}{
		{"admin", "admin123", "Store Administrator", UserRoleAdmin},
		{"staff", "staff123", "Store Staff", UserRoleStaff},
	}

	db := config.GetDB()
	for _, d := range defaults {
		var count int64
		if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", d.username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hashed, err := utils.HashPassword(d.password)
		if err != nil {
			return err
		}
		user := User{
			Username:       d.username,
			HashedPassword: string(hashed),
			FullName:       d.fullName,
			Role:           d.role,
			IsActive:       utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
