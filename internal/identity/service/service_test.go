package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseline/internal/identity/service"
	"caseline/internal/identity/store"
	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

type IdentitySuite struct {
	suite.Suite

	svc       *service.Service
	stationID domain.StationID
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) SetupTest() {
	s.svc = service.New(service.Config{
		Store:      store.NewInMemory(),
		SigningKey: []byte("test-signing-key"),
		TokenTTL:   time.Hour,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.stationID = domain.NewStationID()
}

func (s *IdentitySuite) registerVictim(email string) {
	_, err := s.svc.RegisterVictim(context.Background(), service.RegisterVictimInput{
		Name:     "Asha Rao",
		Email:    email,
		Phone:    "+91-5550101",
		Password: "correct horse",
	})
	s.Require().NoError(err)
}

func (s *IdentitySuite) TestVictimRegisterLoginVerify() {
	s.registerVictim("asha@example.org")

	session, err := s.svc.Login(context.Background(), "Asha@Example.org", "correct horse", domain.RoleVictim)
	s.Require().NoError(err, "email lookup is case-insensitive")
	s.NotEmpty(session.Token)

	actor, err := s.svc.Verify(session.Token)
	s.Require().NoError(err)
	s.Equal(domain.RoleVictim, actor.Role)
	s.Equal("Asha Rao", actor.Name)
	s.Equal(session.Actor.ID, actor.ID)
}

func (s *IdentitySuite) TestOfficerTokenCarriesStation() {
	_, err := s.svc.RegisterOfficer(context.Background(), service.RegisterOfficerInput{
		Name:        "Insp. Kumar",
		Email:       "kumar@police.example.org",
		BadgeNumber: "B-1204",
		Rank:        "Inspector",
		StationID:   s.stationID,
		Password:    "station house",
	})
	s.Require().NoError(err)

	session, err := s.svc.Login(context.Background(), "kumar@police.example.org", "station house", domain.RoleOfficer)
	s.Require().NoError(err)

	actor, err := s.svc.Verify(session.Token)
	s.Require().NoError(err)
	s.Equal(domain.RoleOfficer, actor.Role)
	s.Equal(s.stationID, actor.StationID)
}

func (s *IdentitySuite) TestLoginRejectsBadCredentials() {
	s.registerVictim("asha@example.org")

	_, err := s.svc.Login(context.Background(), "asha@example.org", "wrong password", domain.RoleVictim)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = s.svc.Login(context.Background(), "nobody@example.org", "correct horse", domain.RoleVictim)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "unknown account reads the same as a wrong password")

	// A victim account cannot log in through the officer door.
	_, err = s.svc.Login(context.Background(), "asha@example.org", "correct horse", domain.RoleOfficer)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentitySuite) TestDuplicateEmailConflicts() {
	s.registerVictim("asha@example.org")

	_, err := s.svc.RegisterVictim(context.Background(), service.RegisterVictimInput{
		Name:     "Someone Else",
		Email:    "ASHA@example.org",
		Password: "another pass",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *IdentitySuite) TestRegistrationValidation() {
	_, err := s.svc.RegisterVictim(context.Background(), service.RegisterVictimInput{
		Name:     "Asha Rao",
		Email:    "not-an-email",
		Password: "correct horse",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.RegisterVictim(context.Background(), service.RegisterVictimInput{
		Name:     "Asha Rao",
		Email:    "asha@example.org",
		Password: "short",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = s.svc.RegisterOfficer(context.Background(), service.RegisterOfficerInput{
		Name:        "Insp. Kumar",
		Email:       "kumar@police.example.org",
		BadgeNumber: "B-1204",
		Password:    "station house",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "officer registration requires a station")
}

func (s *IdentitySuite) TestVerifyRejectsTamperedToken() {
	s.registerVictim("asha@example.org")
	session, err := s.svc.Login(context.Background(), "asha@example.org", "correct horse", domain.RoleVictim)
	s.Require().NoError(err)

	_, err = s.svc.Verify(session.Token + "x")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	other := service.New(service.Config{
		Store:      store.NewInMemory(),
		SigningKey: []byte("a different key"),
		TokenTTL:   time.Hour,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	_, err = other.Verify(session.Token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
