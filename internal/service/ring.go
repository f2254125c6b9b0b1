package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/model"
	"github.com/ringshq/rings/internal/repository"
	"github.com/ringshq/rings/internal/validation"
)

type RingService struct {
	ringRepository       repository.RingRepository
	membershipRepository repository.MembershipRepository
	userRepository       repository.UserRepository
}

func NewRingService(
	ringRepository repository.RingRepository,
	membershipRepository repository.MembershipRepository,
	userRepository repository.UserRepository,
) *RingService {
	return &RingService{
		ringRepository:       ringRepository,
		membershipRepository: membershipRepository,
		userRepository:       userRepository,
	}
}

// Create makes a new Ring with the creator as its first member. Both rows
// are written in one transaction so a Ring can never exist with zero members.
func (s *RingService) Create(name, creatorID string) (*model.RingSummary, error) {
	if err := validation.ValidateRingName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	// Proactive duplicate check; the unique constraint covers the race.
	_, err := s.ringRepository.ByName(name)
	if err == nil {
		return nil, apperr.Conflict(apperr.CodeRingNameExists, "Ring name already exists. Please choose a different name.")
	}
	if !errors.Is(err, repository.ErrRingNotFound) {
		return nil, fmt.Errorf("failed to check ring name: %w", err)
	}

	now := time.Now().UTC()
	ring := &model.Ring{
		ID:        uuid.New().String(),
		Name:      name,
		CreatorID: creatorID,
		CreatedAt: now,
	}
	creator := &model.Membership{
		ID:       uuid.New().String(),
		UserID:   creatorID,
		RingID:   ring.ID,
		JoinedAt: now,
	}

	err = s.ringRepository.CreateWithCreator(ring, creator)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRingName) {
			return nil, apperr.Conflict(apperr.CodeRingNameExists, "Ring name already exists. Please choose a different name.")
		}
		return nil, fmt.Errorf("failed to create ring: %w", err)
	}

	slog.Info("ring created", "ring_id", ring.ID, "name", ring.Name, "creator_id", creatorID)

	return &model.RingSummary{
		ID:          ring.ID,
		Name:        ring.Name,
		MemberCount: 1,
		CreatedAt:   ring.CreatedAt,
	}, nil
}

// Authorize is the membership gate for every Ring-scoped operation:
// malformed id → validation error, absent Ring → not found (revealed before
// the membership check, so non-members see a 404 rather than a 403 for
// unknown ids), non-member → forbidden.
func (s *RingService) Authorize(userID, ringID string) (*model.Ring, error) {
	if err := validation.ValidateRingID(ringID); err != nil {
		return nil, err
	}

	ring, err := s.ringRepository.ByID(ringID)
	if err != nil {
		if errors.Is(err, repository.ErrRingNotFound) {
			return nil, apperr.NotFound(apperr.CodeRingNotFound, "Ring not found")
		}
		return nil, fmt.Errorf("failed to get ring: %w", err)
	}

	member, err := s.membershipRepository.IsMember(userID, ringID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, apperr.Forbidden()
	}

	return ring, nil
}

// Summary returns the Ring with its live member count.
func (s *RingService) Summary(ring *model.Ring) (*model.RingSummary, error) {
	count, err := s.membershipRepository.Count(ring.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	return &model.RingSummary{
		ID:          ring.ID,
		Name:        ring.Name,
		MemberCount: count,
		CreatedAt:   ring.CreatedAt,
	}, nil
}

func (s *RingService) ForUser(userID, nameFilter string) ([]*model.RingSummary, error) {
	rings, err := s.ringRepository.ForUser(userID, strings.TrimSpace(nameFilter))
	if err != nil {
		return nil, fmt.Errorf("failed to list rings: %w", err)
	}
	return rings, nil
}

func (s *RingService) Search(query, userID string) ([]*model.RingSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("Please enter a search query.", "")
	}

	rings, err := s.ringRepository.Search(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to search rings: %w", err)
	}
	return rings, nil
}

// Join adds the user to the Ring. Joining twice always fails with the same
// conflict, whether caught proactively or by the unique constraint when two
// join attempts race.
func (s *RingService) Join(userID, ringID string) (*model.RingSearchResult, error) {
	if err := validation.ValidateRingID(ringID); err != nil {
		return nil, err
	}

	ring, err := s.ringRepository.ByID(ringID)
	if err != nil {
		if errors.Is(err, repository.ErrRingNotFound) {
			return nil, apperr.NotFound(apperr.CodeRingNotFound, "Ring not found")
		}
		return nil, fmt.Errorf("failed to get ring: %w", err)
	}

	member, err := s.membershipRepository.IsMember(userID, ringID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if member {
		return nil, apperr.Conflict(apperr.CodeAlreadyMember, "You are already a member of this Ring.")
	}

	err = s.membershipRepository.Create(&model.Membership{
		ID:       uuid.New().String(),
		UserID:   userID,
		RingID:   ringID,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, apperr.Conflict(apperr.CodeAlreadyMember, "You are already a member of this Ring.")
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	count, err := s.membershipRepository.Count(ringID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	slog.Info("user joined ring", "user_id", userID, "ring_id", ringID)

	return &model.RingSearchResult{
		ID:          ring.ID,
		Name:        ring.Name,
		MemberCount: count,
		IsMember:    true,
		CreatedAt:   ring.CreatedAt,
	}, nil
}

// AddMember lets any existing member add another user by username. There is
// no admin tier.
func (s *RingService) AddMember(ringID, requesterID, targetUsername string) (*model.User, error) {
	targetUsername = strings.TrimSpace(targetUsername)
	if targetUsername == "" {
		return nil, apperr.Validation("Username is required", "username")
	}

	_, err := s.Authorize(requesterID, ringID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepository.ByUsername(targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, fmt.Sprintf("User '%s' not found.", targetUsername))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	member, err := s.membershipRepository.IsMember(target.ID, ringID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if member {
		return nil, apperr.Conflict(apperr.CodeAlreadyMember, fmt.Sprintf("User '%s' is already a member of this Ring.", targetUsername))
	}

	err = s.membershipRepository.Create(&model.Membership{
		ID:       uuid.New().String(),
		UserID:   target.ID,
		RingID:   ringID,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, apperr.Conflict(apperr.CodeAlreadyMember, fmt.Sprintf("User '%s' is already a member of this Ring.", targetUsername))
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	slog.Info("member added to ring", "ring_id", ringID, "user_id", target.ID, "added_by", requesterID)
	return target, nil
}
