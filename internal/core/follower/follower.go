package follower

import (
	"time"

	"github.com/gofrs/uuid"
)

// Follower is one follow edge: FollowerID follows UserID.
// The (user_id, follower_id) pair is unique so following twice is a no-op.
type Follower struct {
	ID         uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_pair"`
	FollowerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_follow_pair;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
