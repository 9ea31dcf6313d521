// Package services contains server-side business logic: the account and
// session lifecycle (UserService) and per-user tasks (TaskService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

type RegisterInput struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Gender    string `json:"gender" validate:"required"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

type ForgotPasswordInput struct {
	Email  string `json:"email" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type ResetPasswordInput struct {
	Password   string `json:"password" validate:"required,min=6,max=72"`
	ResetToken string `json:"resetToken" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	UserInfo models.Profile `json:"userInfo"`
	Token    string         `json:"token"`
}

// UserService owns the account lifecycle and is the only component that
// issues or revokes tokens:
//   - Register / Verify: create accounts and confirm their email
//   - Login / Logout: open and close the single active session
//   - ChangePassword / ForgotPassword / ResetPassword: credential updates
//   - Authenticate: token check used by the session guard
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	hasher      *auth.Hasher
	mailer      mailer.Sender
	validate    *validator.Validate
	logger      logging.Logger
	baseURL     string
	mailFrom    string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sender mailer.Sender, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		codec:       auth.NewCodec(cfg.SecretKey, cfg.TokenValidityDuration),
		hasher:      auth.NewHasher(cfg.BcryptCost),
		mailer:      sender,
		validate:    newValidator(),
		logger:      l.With("module", "user_service"),
		baseURL:     cfg.BaseURL,
		mailFrom:    cfg.MailFrom,
	}
}

// Register creates an unverified account and emails a verification link.
// A failed email is logged; the account stays.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = common.NormalizeEmail(in.Email)

	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrorDuplicate
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Gender:       in.Gender,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	link := s.baseURL + "users/verify/" + user.ID
	msg, err := mailer.NewVerificationMessage(s.mailFrom, user.Email, user.FirstName, link)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Error(ctx, "verification email not sent", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Verify marks the account as verified.
func (s *UserService) Verify(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return s.lookupErr(err)
	}
	if user.Verified {
		return common.ErrAlreadyVerified
	}

	if err := repo.MarkVerified(ctx, user.ID); err != nil {
		return s.lookupErr(err)
	}
	return nil
}

// Login checks credentials and opens a new session, revoking any earlier one.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = common.NormalizeEmail(in.Email)

	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.lookupErr(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("error comparing password: %w", err)
	}

	if !user.Verified {
		return nil, common.ErrUnverified
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SessionTokens(tx)
		if _, err := repo.DeleteAllForUser(ctx, user.ID, models.PurposeSession); err != nil {
			return fmt.Errorf("error deleting previous sessions: %w", err)
		}
		return repo.Create(ctx, &models.SessionToken{UserID: user.ID, Token: token, Purpose: models.PurposeSession})
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{UserInfo: user.Profile(), Token: token}, nil
}

// Logout revokes every session of userID. Logging out twice is fine.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userId is required", common.ErrorValidation)
	}

	n, err := s.repomanager.SessionTokens(s.db).DeleteAllForUser(ctx, userID, models.PurposeSession)
	if err != nil {
		return fmt.Errorf("error deleting sessions: %w", err)
	}

	s.logger.Debug(ctx, "sessions revoked", "user_id", userID, "count", n)
	return nil
}

// ChangePassword replaces the hash of an authenticated user after checking
// the old password.
func (s *UserService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := check(s.validate, in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return s.lookupErr(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.OldPassword); err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			return err
		}
		return fmt.Errorf("error comparing password: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return s.lookupErr(err)
	}
	return nil
}

// ForgotPassword issues a reset token for the user owning email and mails
// a reset link. userID must belong to that same user.
func (s *UserService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	in.Email = common.NormalizeEmail(in.Email)

	if err := check(s.validate, in); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		return s.lookupErr(err)
	}
	if user.ID != strings.TrimSpace(in.UserID) {
		return common.ErrorNotFound
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("error issuing token: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.SessionTokens(tx)
		if _, err := repo.DeleteAllForUser(ctx, user.ID, models.PurposeReset); err != nil {
			return fmt.Errorf("error deleting previous reset tokens: %w", err)
		}
		return repo.Create(ctx, &models.SessionToken{UserID: user.ID, Token: token, Purpose: models.PurposeReset})
	})
	if err != nil {
		return err
	}

	link := s.baseURL + "reset-password?token=" + token
	msg, err := mailer.NewPasswordResetMessage(s.mailFrom, user.Email, user.FirstName, link, s.codec.Validity())
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Error(ctx, "password reset email not sent", "user_id", user.ID, "error", err)
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password for the
// token's owner. The caller supplied userId is not trusted.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := check(s.validate, in); err != nil {
		return err
	}

	stored, err := s.repomanager.SessionTokens(s.db).FindByToken(ctx, in.ResetToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error searching token: %w", err)
	}
	if stored.Purpose != models.PurposeReset {
		return common.ErrInvalidToken
	}

	if _, err := s.codec.Verify(in.ResetToken); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			if delErr := s.repomanager.SessionTokens(s.db).DeleteByToken(ctx, in.ResetToken); delErr != nil {
				s.logger.Warn(ctx, "expired reset token not deleted", "user_id", stored.UserID, "error", delErr)
			}
		}
		return common.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, stored.UserID, hash); err != nil {
			return s.lookupErr(err)
		}
		if err := s.repomanager.SessionTokens(tx).DeleteByToken(ctx, in.ResetToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting reset token: %w", err)
		}
		return nil
	})
}

// Authenticate resolves a bearer token to its user id. The token must be a
// stored session token and pass the codec check. Nothing is modified.
func (s *UserService) Authenticate(ctx context.Context, token string) (string, error) {
	stored, err := s.repomanager.SessionTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", fmt.Errorf("error searching token: %w", err)
	}
	if stored.Purpose != models.PurposeSession {
		return "", common.ErrInvalidToken
	}

	userID, err := s.codec.Verify(token)
	if err != nil || userID != stored.UserID {
		return "", common.ErrInvalidToken
	}

	return stored.UserID, nil
}

// lookupErr passes sentinel errors through and wraps the rest.
func (s *UserService) lookupErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("error accessing users: %w", err)
}
