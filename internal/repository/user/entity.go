package user

import (
	"time"

	"github.com/liuwen-dev/vocana/internal/domains/user"
)

type UserEntity struct {
	ID                string     `gorm:"primaryKey;type:varchar(50);not null"`
	Username          string     `gorm:"type:varchar(100);not null"`
	Email             string     `gorm:"type:varchar(100);index"`
	Description       string     `gorm:"type:text"`
	ResponseFrequency float64    `gorm:"column:response_frequency;default:1"`
	Preferences       []byte     `gorm:"type:json"`
	LastActive        *time.Time `gorm:"column:last_active"`
	CreatedAt         time.Time  `gorm:"autoCreateTime(3)"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime(3)"`
	IsActive          bool       `gorm:"column:is_active;default:true"`
}

func (UserEntity) TableName() string { return "users" }

func (e *UserEntity) ToDomain() *user.User {
	return &user.User{
		ID:                e.ID,
		Username:          e.Username,
		Email:             e.Email,
		Description:       e.Description,
		ResponseFrequency: e.ResponseFrequency,
		Preferences:       e.Preferences,
		LastActive:        e.LastActive,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		IsActive:          e.IsActive,
	}
}

func NewUserEntityFromDomain(u *user.User) *UserEntity {
	return &UserEntity{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Description:       u.Description,
		ResponseFrequency: u.ResponseFrequency,
		Preferences:       u.Preferences,
		LastActive:        u.LastActive,
		IsActive:          u.IsActive,
	}
}
