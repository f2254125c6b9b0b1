package model

import (
	"time"
)

// Membership is the join record granting a user read/write access to a Ring.
// It is the sole authority for access control; there is no admin tier and
// no leave operation.
type Membership struct {
	ID       string    `db:"id"`
	UserID   string    `db:"user_id"`
	RingID   string    `db:"ring_id"`
	JoinedAt time.Time `db:"joined_at"`
}
