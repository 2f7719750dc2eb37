package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service owns the session/token lifecycle: account registration and
// login, access-token issuance, refresh-token rotation and revocation,
// and the password-reset flow.
type Service struct {
	users  UserStore
	tokens TokenStore
	resets ResetStore
	jwt    tokenSigner
	mailer Mailer
	cfg    config.AuthConfig
}

func NewService(users UserStore, tokens TokenStore, resets ResetStore, jwt tokenSigner, mailer Mailer, cfg config.AuthConfig) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		resets: resets,
		jwt:    jwt,
		mailer: mailer,
		cfg:    cfg,
	}
}

type LoginResult struct {
	User            *domain.User
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest, userAgent, ip string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshRaw, err := s.issueRefreshToken(ctx, s.tokens, user.ID, userAgent, ip, nil)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{
		User:            user,
		AccessToken:     accessToken,
		AccessExpiresAt: expiresAt,
		RefreshToken:    refreshRaw,
	}, nil
}

// RefreshSession rotates a refresh token: the old row is revoked and a new
// access+refresh pair issued, atomically. A rotated-or-revoked token is
// permanently dead; presenting it again fails with ErrTokenRevoked.
func (s *Service) RefreshSession(ctx context.Context, refreshRaw, userAgent, ip string) (*RefreshResult, error) {
	now := time.Now()
	hash := hashTokenWithPepper(refreshRaw, s.cfg.RefreshTokenPepper)

	var result *RefreshResult
	err := s.tokens.WithTransaction(ctx, func(tx TokenStore) error {
		current, err := tx.GetByHashForUpdate(ctx, hash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if current.IsRevoked() {
			return ErrTokenRevoked
		}
		if current.IsExpired(now) {
			return ErrTokenExpired
		}

		// Catch users deleted after the token was issued.
		user, err := s.users.GetByID(ctx, current.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		accessToken, expiresAt, err := s.jwt.GenerateToken(user.ID, string(user.Role))
		if err != nil {
			return err
		}

		newRaw, err := s.issueRefreshToken(ctx, tx, user.ID, userAgent, ip, &current.ID)
		if err != nil {
			return err
		}

		result = &RefreshResult{
			AccessToken:     accessToken,
			AccessExpiresAt: expiresAt,
			RefreshToken:    newRaw,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Logout revokes the presented refresh token. A missing token is a no-op:
// logout never fails loudly.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	hash := hashTokenWithPepper(refreshRaw, s.cfg.RefreshTokenPepper)

	token, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.tokens.Revoke(ctx, token.ID, nil)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// RequestPasswordReset issues a short-lived single-use token. An unknown
// email is a silent success, so the endpoint does not leak which accounts
// exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw, hash, err := generateOpaqueToken(s.cfg.RefreshTokenPepper)
	if err != nil {
		return err
	}

	reset := &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(s.cfg.PasswordResetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(ctx, user.Email, raw)
}

// ConfirmPasswordReset consumes the token, replaces the password hash and
// revokes every live refresh token the user holds.
func (s *Service) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrValidation
	}

	hash := hashTokenWithPepper(rawToken, s.cfg.RefreshTokenPepper)
	reset, err := s.resets.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if reset.IsExpired(time.Now()) {
		_ = s.resets.DeleteByUser(ctx, reset.UserID)
		return ErrTokenExpired
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, reset.UserID, string(passwordHash)); err != nil {
		return err
	}

	if err := s.resets.DeleteByUser(ctx, reset.UserID); err != nil {
		return err
	}
	return s.tokens.RevokeByUser(ctx, reset.UserID)
}

// issueRefreshToken persists a new hashed refresh token and, when rotating,
// marks the predecessor revoked with its replacement recorded.
func (s *Service) issueRefreshToken(ctx context.Context, store TokenStore, userID int64, userAgent, ip string, rotatedFromID *int64) (string, error) {
	raw, hash, err := generateOpaqueToken(s.cfg.RefreshTokenPepper)
	if err != nil {
		return "", err
	}

	token := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		JTI:       uuid.NewString(),
		UserAgent: nullableString(userAgent),
		IP:        nullableString(ip),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
	}
	if err := store.Create(ctx, token); err != nil {
		return "", err
	}

	if rotatedFromID != nil {
		if err := store.Revoke(ctx, *rotatedFromID, &token.ID); err != nil {
			return "", err
		}
	}
	return raw, nil
}

func generateOpaqueToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	hash = hashTokenWithPepper(raw, pepper)
	return raw, hash, nil
}

func hashTokenWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

func nullableString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
