package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/domain/repositories"
	"collabriss.backend/pkg/crypto"
	"collabriss.backend/pkg/jwt"
	"collabriss.backend/pkg/logger"
	"collabriss.backend/pkg/redis"
)

// SessionStore keeps server-side login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, data *redis.SessionData, expiration time.Duration) (string, error)
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	subRepo      repositories.SubscriptionRepository
	jwtService   *jwt.JWTService
	sessionStore SessionStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	subRepo repositories.SubscriptionRepository,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		subRepo:      subRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a merchant account. The business and personal names given
// here pre-fill onboarding.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	user := &entities.User{
		Email:        email,
		Name:         strings.TrimSpace(first + " " + last),
		BusinessName: strings.TrimSpace(input.BusinessName),
		FirstName:    first,
		LastName:     last,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleMerchant,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()))
	return u.issue(ctx, user, false)
}

// Login authenticates a user and returns tokens. With UseSession the refresh
// token is kept server-side and only a session id is returned.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return u.issue(ctx, user, input.UseSession)
}

func (u *AuthUsecase) issue(ctx context.Context, user *entities.User, useSession bool) (*entities.AuthResponse, error) {
	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	resp := &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}
	if !useSession || u.sessionStore == nil {
		return resp, nil
	}

	sessionID, err := u.sessionStore.CreateSession(ctx, &redis.SessionData{
		UserID:       user.ID,
		Email:        user.Email,
		RefreshToken: tokenPair.RefreshToken,
	}, u.jwtService.RefreshExpiry())
	if err != nil {
		return nil, err
	}
	resp.SessionID = sessionID
	resp.RefreshToken = ""
	return resp, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateTyped(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// RefreshSession issues new tokens for a server-side session and rotates the
// stored refresh token.
func (u *AuthUsecase) RefreshSession(ctx context.Context, sessionID string) (*jwt.TokenPair, error) {
	if u.sessionStore == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	session, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	pair, err := u.RefreshToken(ctx, session.RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := u.sessionStore.DeleteSession(ctx, sessionID); err != nil {
		return nil, err
	}
	newID, err := u.sessionStore.CreateSession(ctx, &redis.SessionData{
		UserID:       session.UserID,
		Email:        session.Email,
		RefreshToken: pair.RefreshToken,
	}, u.jwtService.RefreshExpiry())
	if err != nil {
		return nil, err
	}
	pair.SessionID = newID
	pair.RefreshToken = ""
	return pair, nil
}

// Me returns the session context: the user and, once onboarded, the profile
// and subscription.
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.SessionContext, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &entities.SessionContext{User: user}

	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		out.Profile = profile
		out.Onboarded = true
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	sub, err := u.subRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		out.Subscription = sub
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	return out, nil
}

// Logout clears the server-side session. An unknown session is not an error.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" || u.sessionStore == nil {
		return nil
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}
