// Package service implements registration, login, and token refresh.
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	auditmodels "vouch/internal/audit/models"
	"vouch/internal/identity/models"
	"vouch/internal/platform/config"
	"vouch/internal/token"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/requestcontext"
)

const minPasswordLength = 8

// UserStore is the persistence surface for accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuditPublisher receives audit trail events.
type AuditPublisher interface {
	Publish(ctx context.Context, event auditmodels.Event)
}

type noopAudit struct{}

func (noopAudit) Publish(context.Context, auditmodels.Event) {}

type Service struct {
	users      UserStore
	tokens     *token.Service
	bcryptCost int
	logger     *slog.Logger
	audit      AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.audit = pub }
}

func New(users UserStore, tokens *token.Service, cfg config.PasswordConfig, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     slog.Default(),
		audit:      noopAudit{},
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries the self-service signup payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     id.Role
}

// Register creates an account. Self-service signup covers candidates,
// verifiers, and employers; admin accounts are provisioned out of band.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Role == id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "admin accounts cannot be self-registered")
	}
	if len(input.Password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	u, err := models.NewUser(id.NewUserID(), input.Email, input.FullName, input.Role, hash, now)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	ev := auditmodels.NewEvent(auditmodels.ActionUserRegistered, "user", u.ID.String(), now)
	ev.ActorID = u.ID
	ev.ActorRole = u.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.ClientIP = requestcontext.ClientIP(ctx)
	ev.UserAgent = requestcontext.UserAgent(ctx)
	s.audit.Publish(ctx, ev)

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login verifies credentials and issues a token pair. Unknown email and bad
// password return the same error so the endpoint cannot be used to probe for
// accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, token.Pair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, token.Pair{}, invalidCredentials()
		}
		return nil, token.Pair{}, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, token.Pair{}, invalidCredentials()
	}

	now := requestcontext.Now(ctx)
	pair, err := s.tokens.IssuePair(u.ID, u.Role, now)
	if err != nil {
		return nil, token.Pair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue tokens")
	}

	ev := auditmodels.NewEvent(auditmodels.ActionUserLoggedIn, "user", u.ID.String(), now)
	ev.ActorID = u.ID
	ev.ActorRole = u.Role
	ev.RequestID = requestcontext.RequestID(ctx)
	ev.ClientIP = requestcontext.ClientIP(ctx)
	ev.UserAgent = requestcontext.UserAgent(ctx)
	s.audit.Publish(ctx, ev)

	return u, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return token.Pair{}, err
	}
	// The account must still exist; tokens outlive deletions.
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return token.Pair{}, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return token.Pair{}, dErrors.Wrap(err, dErrors.CodeInternal, "refresh failed")
	}
	pair, err := s.tokens.IssuePair(u.ID, u.Role, requestcontext.Now(ctx))
	if err != nil {
		return token.Pair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue tokens")
	}
	return pair, nil
}

// Me returns the calling user's account.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "lookup failed")
	}
	return u, nil
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
}
