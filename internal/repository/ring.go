package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ringshq/rings/internal/model"
)

type RingRepository interface {
	CreateWithCreator(ring *model.Ring, creator *model.Membership) error
	ByID(id string) (*model.Ring, error)
	ByName(name string) (*model.Ring, error)
	ForUser(userID, nameFilter string) ([]*model.RingSummary, error)
	Search(query, userID string) ([]*model.RingSearchResult, error)
}

type ringRepository struct {
	db *sqlx.DB
}

func NewRingRepository(db *sqlx.DB) RingRepository {
	return &ringRepository{db: db}
}

// CreateWithCreator inserts the Ring and its creator's Membership in a
// single transaction. A Ring must never exist with zero members.
func (r *ringRepository) CreateWithCreator(ring *model.Ring, creator *model.Membership) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO rings (id, name, creator_id, created_at) VALUES ($1, $2, $3, $4)`,
		ring.ID, ring.Name, ring.CreatorID, ring.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRingName
		}
		return err
	}

	_, err = tx.Exec(`INSERT INTO memberships (id, user_id, ring_id, joined_at) VALUES ($1, $2, $3, $4)`,
		creator.ID, creator.UserID, creator.RingID, creator.JoinedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ringRepository) ByID(id string) (*model.Ring, error) {
	ring := &model.Ring{}
	query := `SELECT * FROM rings WHERE id = $1`

	err := r.db.Get(ring, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRingNotFound
	}

	return ring, err
}

func (r *ringRepository) ByName(name string) (*model.Ring, error) {
	ring := &model.Ring{}
	query := `SELECT * FROM rings WHERE name = $1`

	err := r.db.Get(ring, query, name)
	if err == sql.ErrNoRows {
		return nil, ErrRingNotFound
	}

	return ring, err
}

// ForUser returns the Rings the user belongs to, each with its live member
// count, newest-created first. nameFilter is an optional case-insensitive
// substring match on the Ring name.
func (r *ringRepository) ForUser(userID, nameFilter string) ([]*model.RingSummary, error) {
	rings := []*model.RingSummary{}

	query := `SELECT r.id, r.name, r.created_at, COUNT(m.id) AS member_count
	          FROM rings r
	          INNER JOIN memberships m ON r.id = m.ring_id
	          WHERE EXISTS (
	              SELECT 1 FROM memberships m2 WHERE m2.ring_id = r.id AND m2.user_id = $1
	          )`
	args := []any{userID}

	if nameFilter != "" {
		query += ` AND LOWER(r.name) LIKE LOWER($2)`
		args = append(args, "%"+nameFilter+"%")
	}

	query += ` GROUP BY r.id, r.name, r.created_at ORDER BY r.created_at DESC`

	err := r.db.Select(&rings, query, args...)
	if err != nil {
		return nil, err
	}

	return rings, nil
}

// Search returns all Rings matching the query substring regardless of
// membership, annotated with member count and whether userID already
// belongs, newest-created first.
func (r *ringRepository) Search(query, userID string) ([]*model.RingSearchResult, error) {
	rings := []*model.RingSearchResult{}

	q := `SELECT r.id, r.name, r.created_at,
	             COUNT(DISTINCT m.id) AS member_count,
	             EXISTS(SELECT 1 FROM memberships m2 WHERE m2.ring_id = r.id AND m2.user_id = $2) AS is_member
	      FROM rings r
	      LEFT JOIN memberships m ON r.id = m.ring_id
	      WHERE LOWER(r.name) LIKE LOWER($1)
	      GROUP BY r.id, r.name, r.created_at
	      ORDER BY r.created_at DESC`

	err := r.db.Select(&rings, q, "%"+query+"%", userID)
	if err != nil {
		return nil, err
	}

	return rings, nil
}
