package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/model"
	"github.com/ringshq/rings/internal/repository"
	"github.com/ringshq/rings/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "session_token"

type AuthService struct {
	userRepository repository.UserRepository
	sessionSecret  string
	sessionExpiry  time.Duration
	secureCookies  bool
}

func NewAuthService(userRepository repository.UserRepository, sessionSecret string, sessionExpiry time.Duration, secureCookies bool) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		sessionSecret:  sessionSecret,
		sessionExpiry:  sessionExpiry,
		secureCookies:  secureCookies,
	}
}

// Register validates the credentials, hashes the password, and persists the
// new user. The raw password is never stored or logged.
func (s *AuthService) Register(username, password string) (*model.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	// Proactive duplicate check. Racy by nature; the unique constraint
	// below catches the loser of a concurrent registration.
	_, err := s.userRepository.ByUsername(username)
	if err == nil {
		return nil, apperr.Conflict(apperr.CodeUsernameExists, "Username already exists")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedBytes),
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperr.Conflict(apperr.CodeUsernameExists, "Username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and updates last-login-at. Unknown username
// and wrong password produce the identical error, so the response never
// signals whether a username exists.
func (s *AuthService) Login(username, password string) (*model.User, error) {
	user, err := s.userRepository.ByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	now := time.Now().UTC()
	err = s.userRepository.UpdateLastLogin(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginAt = &now

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthorized()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GenerateSessionToken signs a session token carrying the user id and
// username. The cookie value is opaque to the client.
func (s *AuthService) GenerateSessionToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.sessionExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.sessionSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifySessionToken resolves a cookie value to a session, or fails for
// missing, malformed, expired, or tampered tokens.
func (s *AuthService) VerifySessionToken(tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &model.Session{UserID: userID, Username: username}, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.sessionExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) SessionCookieName() string {
	return sessionCookieName
}
