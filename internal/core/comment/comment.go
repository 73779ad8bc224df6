package comment

import (
	"time"

	"snapfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null"`
	User      user.User `gorm:"foreignkey:UserID"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
