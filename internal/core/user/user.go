package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName   string    `gorm:"type:varchar(255)"`
	ProfilePic string    `gorm:"type:varchar(512)"`
	Password   string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}
