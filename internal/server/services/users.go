// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the current-user lookup.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/auth"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/repomanager"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token    string
	UserName string
}

// UserService provides authentication-related operations:
// - Register: create users and mint a token
// - Login: verify credentials and mint a token
// - Me: load the caller's profile
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenCodec
	hasher      *auth.PasswordHasher
	logger      logging.Logger

	// verified against on unknown emails so both login failures cost one bcrypt run
	dummyHash string
}

// NewUserService constructs a UserService. db may be nil when m does not need
// a database handle.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenCodec,
	hasher *auth.PasswordHasher, logger logging.Logger) (*UserService, error) {

	dummy, err := hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		return nil, err
	}

	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger,
		dummyHash:   dummy,
	}, nil
}

// Register creates a user and returns a token for it. An email or username
// that is already taken yields ErrorDuplicateIdentity.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)
	email = strings.TrimSpace(email)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorDuplicateIdentity
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := repo.Create(ctx, &models.User{UserName: userName, Email: email, PasswordHash: hash})
	if err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrorDuplicateIdentity
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.issue(ctx, u)
}

// Login checks the credentials and returns a token. Unknown email and wrong
// password both yield ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issue(ctx, u)
}

// Me returns the profile of the authenticated user.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error loading user", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return u, nil
}

func (s *UserService) issue(ctx context.Context, u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "user_id", u.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, UserName: u.UserName}, nil
}
