package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/repository"
)

type UseCase struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	logger     *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration, logger *zap.Logger) *UseCase {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates an account and logs it in. Validation failures and
// duplicate emails come back as domain errors; the password is stored only
// as a bcrypt digest.
func (uc *UseCase) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.User, *domain.Session, error) {
	if firstName == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "First Name is required.")
	}
	if lastName == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "Last Name is required.")
	}
	if email == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "Email is required.")
	}
	if password == "" {
		return nil, nil, domain.NewError(domain.ErrCodeInvalid, "Password is required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := uc.users.Create(ctx, user); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return nil, nil, domain.NewError(domain.ErrCodeConflict, fmt.Sprintf("%s is already registered.", email))
		}
		return nil, nil, err
	}

	session, err := uc.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, session, nil
}

// Login verifies credentials and opens a fresh session. Unknown emails and
// wrong passwords yield the same error so the response never reveals whether
// an account exists.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil, domain.ErrBadCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrBadCredentials
	}

	session, err := uc.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, session, nil
}

// CurrentUser resolves the user referenced by a session id. A missing,
// expired, or dangling session means an anonymous request, not an error.
func (uc *UseCase) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, nil
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Logout destroys the session. Logging out with no session is a no-op.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) createSession(ctx context.Context, userID string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
