// Package models holds the identity entities: the citizens who file
// complaints and the officers who work them.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// Victim is a registered citizen account.
type Victim struct {
	ID           domain.VictimID
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// NewVictim constructs a victim account from validated registration input.
func NewVictim(name, email, phone string, passwordHash []byte, now time.Time) (*Victim, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	}
	email = normalizeEmail(email)
	if !govalidator.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	return &Victim{
		ID:           domain.NewVictimID(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// Officer is a registered police officer account attached to one station.
type Officer struct {
	ID           domain.OfficerID
	Name         string
	Email        string
	BadgeNumber  string
	Rank         string
	StationID    domain.StationID
	PasswordHash []byte
	CreatedAt    time.Time
}

// NewOfficer constructs an officer account from validated registration input.
func NewOfficer(name, email, badge, rank string, stationID domain.StationID, passwordHash []byte, now time.Time) (*Officer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name cannot be empty")
	}
	email = normalizeEmail(email)
	if !govalidator.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	if strings.TrimSpace(badge) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "badge number cannot be empty")
	}
	if stationID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "station id is required")
	}
	return &Officer{
		ID:           domain.NewOfficerID(),
		Name:         name,
		Email:        email,
		BadgeNumber:  badge,
		Rank:         rank,
		StationID:    stationID,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims an email for lookup, matching how
// accounts store it.
func NormalizeEmail(email string) string { return normalizeEmail(email) }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
