package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/ringshq/rings/internal/model"
)

type PostRepository interface {
	Create(post *model.Post) error
	ForRing(ringID string) ([]*model.RingPost, error)
	Feed(userID, nameFilter string) ([]*model.FeedPost, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (id, ring_id, user_id, message_text, image_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, post.ID, post.RingID, post.UserID, post.MessageText, post.ImageURL, post.CreatedAt)
	return err
}

// ForRing returns every post in the Ring joined with the author's current
// username, oldest first (chat-log order).
func (r *postRepository) ForRing(ringID string) ([]*model.RingPost, error) {
	posts := []*model.RingPost{}

	query := `SELECT p.id, p.ring_id, p.user_id, p.message_text, p.image_url, p.created_at, u.username
	          FROM posts p
	          INNER JOIN users u ON p.user_id = u.id
	          WHERE p.ring_id = $1
	          ORDER BY p.created_at ASC`

	err := r.db.Select(&posts, query, ringID)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// Feed returns the posts of every Ring the user belongs to, newest first.
// The ordering deliberately differs from ForRing: a feed favors recency,
// a conversation favors chronology.
func (r *postRepository) Feed(userID, nameFilter string) ([]*model.FeedPost, error) {
	posts := []*model.FeedPost{}

	query := `SELECT p.id, p.ring_id, r.name AS ring_name, p.user_id, u.username, p.message_text, p.image_url, p.created_at
	          FROM posts p
	          INNER JOIN rings r ON p.ring_id = r.id
	          INNER JOIN users u ON p.user_id = u.id
	          WHERE EXISTS (
	              SELECT 1 FROM memberships m WHERE m.ring_id = p.ring_id AND m.user_id = $1
	          )`
	args := []any{userID}

	if nameFilter != "" {
		query += ` AND LOWER(r.name) LIKE LOWER($2)`
		args = append(args, "%"+nameFilter+"%")
	}

	query += ` ORDER BY p.created_at DESC`

	err := r.db.Select(&posts, query, args...)
	if err != nil {
		return nil, err
	}

	return posts, nil
}
