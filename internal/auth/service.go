// Package auth はユーザー登録、ログイン、Bearerトークン認証を提供する。
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   *TokenService
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, tokens *TokenService) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Register はユーザーを登録する。
// 既存チェックは行わず、usernameの一意性はストアの制約に委ねる。
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.NewValidationError("username and password are required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.NewServerError("failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if model.KindOf(err) != model.KindServerFailure {
			return err
		}
		return model.NewServerError("failed to create user", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)
	return nil
}

// Login は認証情報を検証し、Bearerトークンを発行する。
// ユーザー不在とパスワード不一致は同一のエラーを返す。
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", model.NewServerError("failed to find user", err)
	}
	if user == nil {
		return "", model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", model.NewServerError("failed to verify password", err)
	}
	if !ok {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", model.NewServerError("failed to issue token", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return token, nil
}

// Authenticate はAuthorizationヘッダーの値を検証し、認証済みの主体を返す。
// 失敗時は*AuthErrorを返す。
func (s *Service) Authenticate(ctx context.Context, authorizationHeader string) (*Identity, error) {
	token, authErr := bearerToken(authorizationHeader)
	if authErr != nil {
		return nil, authErr
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, &AuthError{State: StateInvalidToken, Err: err}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, &AuthError{State: StateValidTokenUnknownUser, Err: err}
	}
	if user == nil {
		return nil, &AuthError{State: StateValidTokenUnknownUser}
	}

	return &Identity{UserID: user.ID, Username: user.Username}, nil
}
