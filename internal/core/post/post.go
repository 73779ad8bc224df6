package post

import (
	"time"

	"snapfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignkey:UserID"` // author, loaded on demand
	ImageURL  string    `gorm:"type:varchar(512);not null"`
	Caption   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
