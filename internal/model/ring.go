package model

import (
	"time"
)

type Ring struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatorID string    `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
}

// RingSummary is a Ring annotated with its live member count, as returned
// by the listing and detail endpoints.
type RingSummary struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	MemberCount int       `db:"member_count" json:"memberCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// RingSearchResult additionally carries whether the caller already belongs
// to the Ring.
type RingSearchResult struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	MemberCount int       `db:"member_count" json:"memberCount"`
	IsMember    bool      `db:"is_member" json:"isMember"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
