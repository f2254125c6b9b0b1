package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/ringshq/rings/internal/model"
)

type MembershipRepository interface {
	Create(membership *model.Membership) error
	IsMember(userID, ringID string) (bool, error)
	Count(ringID string) (int, error)
}

type membershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(membership *model.Membership) error {
	query := `INSERT INTO memberships (id, user_id, ring_id, joined_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, membership.ID, membership.UserID, membership.RingID, membership.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMembership
		}
		return err
	}

	return nil
}

// IsMember is the single predicate every authorization check reduces to.
func (r *membershipRepository) IsMember(userID, ringID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM memberships WHERE user_id = $1 AND ring_id = $2`

	err := r.db.QueryRow(query, userID, ringID).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Count is recomputed per request; there is no cached counter.
func (r *membershipRepository) Count(ringID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM memberships WHERE ring_id = $1`

	err := r.db.QueryRow(query, ringID).Scan(&count)
	return count, err
}
