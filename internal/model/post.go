package model

import (
	"time"
)

type Post struct {
	ID          string    `db:"id"`
	RingID      string    `db:"ring_id"`
	UserID      string    `db:"user_id"`
	MessageText string    `db:"message_text"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
}

// RingPost is a post joined with its author's current username, as returned
// by the in-Ring chat listing.
type RingPost struct {
	ID          string    `db:"id" json:"id"`
	RingID      string    `db:"ring_id" json:"ringId"`
	UserID      string    `db:"user_id" json:"userId"`
	Username    string    `db:"username" json:"username"`
	MessageText string    `db:"message_text" json:"messageText"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// FeedPost additionally carries the Ring name for the cross-Ring news feed.
type FeedPost struct {
	ID          string    `db:"id" json:"id"`
	RingID      string    `db:"ring_id" json:"ringId"`
	RingName    string    `db:"ring_name" json:"ringName"`
	UserID      string    `db:"user_id" json:"userId"`
	Username    string    `db:"username" json:"username"`
	MessageText string    `db:"message_text" json:"messageText"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
