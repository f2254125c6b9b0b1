package service

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/model"
	"github.com/ringshq/rings/internal/repository"
	"github.com/ringshq/rings/internal/validation"
)

type PostService struct {
	postRepository repository.PostRepository
	fileService    *FileService
}

func NewPostService(postRepository repository.PostRepository, fileService *FileService) *PostService {
	return &PostService{
		postRepository: postRepository,
		fileService:    fileService,
	}
}

// Create appends a post to the Ring's log. Membership is the caller's
// responsibility: every route reaching this has already passed the
// authorization gate, and the write path stays a single responsibility.
func (s *PostService) Create(ringID string, author *model.Session, text string, image *multipart.FileHeader) (*model.RingPost, error) {
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, err
	}

	var imageURL *string
	if image != nil && image.Filename != "" {
		url, err := s.fileService.SaveImage(image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	post := &model.Post{
		ID:          uuid.New().String(),
		RingID:      ringID,
		UserID:      author.UserID,
		MessageText: strings.TrimSpace(text),
		ImageURL:    imageURL,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.postRepository.Create(post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "ring_id", ringID, "user_id", author.UserID, "has_image", imageURL != nil)

	return &model.RingPost{
		ID:          post.ID,
		RingID:      post.RingID,
		UserID:      post.UserID,
		Username:    author.Username,
		MessageText: post.MessageText,
		ImageURL:    post.ImageURL,
		CreatedAt:   post.CreatedAt,
	}, nil
}

func (s *PostService) ForRing(ringID string) ([]*model.RingPost, error) {
	posts, err := s.postRepository.ForRing(ringID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Feed aggregates the posts of every Ring the user belongs to, newest first,
// optionally filtered by a case-insensitive Ring-name substring.
func (s *PostService) Feed(userID, nameFilter string) ([]*model.FeedPost, error) {
	posts, err := s.postRepository.Feed(userID, strings.TrimSpace(nameFilter))
	if err != nil {
		return nil, fmt.Errorf("failed to load news feed: %w", err)
	}
	return posts, nil
}
