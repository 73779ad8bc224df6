package like

import (
	"time"

	"github.com/gofrs/uuid"
)

// Like is unique per (user_id, post_id).
type Like struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_post"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_post;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
