// Package service implements account registration and login. Passwords are
// bcrypt-hashed; sessions are stateless JWTs carrying the actor identity the
// complaint core trusts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"caseline/internal/identity/models"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
	"caseline/pkg/platform/sentinel"
	"caseline/pkg/requestcontext"
)

const minPasswordLength = 8

// Store is the identity persistence surface.
type Store interface {
	CreateVictim(ctx context.Context, v *models.Victim) error
	FindVictimByEmail(ctx context.Context, email string) (*models.Victim, error)
	CreateOfficer(ctx context.Context, o *models.Officer) error
	FindOfficerByEmail(ctx context.Context, email string) (*models.Officer, error)
}

// Config carries the identity service dependencies.
type Config struct {
	Store      Store
	SigningKey []byte
	TokenTTL   time.Duration
	Logger     *slog.Logger
}

// Service handles registration, login and token verification.
type Service struct {
	store  Store
	tokens *tokenCodec
	logger *slog.Logger
}

// New constructs the identity service.
func New(cfg Config) *Service {
	return &Service{
		store:  cfg.Store,
		tokens: newTokenCodec(cfg.SigningKey, cfg.TokenTTL),
		logger: cfg.Logger,
	}
}

// RegisterVictimInput is the payload for citizen registration.
type RegisterVictimInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// RegisterVictim creates a citizen account.
func (s *Service) RegisterVictim(ctx context.Context, in RegisterVictimInput) (*models.Victim, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	v, err := models.NewVictim(in.Name, in.Email, in.Phone, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateVictim(ctx, v); err != nil {
		return nil, translateCreate(err)
	}
	s.logger.InfoContext(ctx, "victim registered", "victim_id", v.ID)
	return v, nil
}

// RegisterOfficerInput is the payload for officer registration.
type RegisterOfficerInput struct {
	Name        string
	Email       string
	BadgeNumber string
	Rank        string
	StationID   domain.StationID
	Password    string
}

// RegisterOfficer creates an officer account attached to a station.
func (s *Service) RegisterOfficer(ctx context.Context, in RegisterOfficerInput) (*models.Officer, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	o, err := models.NewOfficer(in.Name, in.Email, in.BadgeNumber, in.Rank, in.StationID, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateOfficer(ctx, o); err != nil {
		return nil, translateCreate(err)
	}
	s.logger.InfoContext(ctx, "officer registered", "officer_id", o.ID, "station_id", o.StationID)
	return o, nil
}

// Session is an issued login session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Actor     domain.Actor
}

// Login verifies credentials and issues a session token. Unknown accounts and
// wrong passwords return the same error so login probing reveals nothing.
func (s *Service) Login(ctx context.Context, email, password string, role domain.Role) (*Session, error) {
	email = models.NormalizeEmail(email)
	actor, hash, err := s.lookup(ctx, email, role)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.tokens.issue(actor, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue session token")
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Actor: actor}, nil
}

// Verify validates a bearer token and returns the actor it identifies.
// Satisfies the auth middleware's TokenVerifier.
func (s *Service) Verify(tokenString string) (domain.Actor, error) {
	return s.tokens.verify(tokenString)
}

func (s *Service) lookup(ctx context.Context, email string, role domain.Role) (domain.Actor, []byte, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	switch role {
	case domain.RoleVictim:
		v, err := s.store.FindVictimByEmail(ctx, email)
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Actor{}, nil, invalid
		}
		if err != nil {
			return domain.Actor{}, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
		}
		return domain.Actor{ID: uuid.UUID(v.ID), Role: domain.RoleVictim, Name: v.Name}, v.PasswordHash, nil
	case domain.RoleOfficer:
		o, err := s.store.FindOfficerByEmail(ctx, email)
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Actor{}, nil, invalid
		}
		if err != nil {
			return domain.Actor{}, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
		}
		return domain.Actor{ID: uuid.UUID(o.ID), Role: domain.RoleOfficer, StationID: o.StationID, Name: o.Name}, o.PasswordHash, nil
	default:
		return domain.Actor{}, nil, dErrors.New(dErrors.CodeInvalidInput, "role must be VICTIM or OFFICER")
	}
}

func hashPassword(password string) ([]byte, error) {
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}
	return hash, nil
}

func translateCreate(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "email already registered")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable")
}
