package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"caseline/pkg/domain"
	dErrors "caseline/pkg/domain-errors"
)

// sessionClaims is the JWT payload for a login session. The station claim is
// present only for officers; downstream authorization reads it instead of any
// client-supplied field.
type sessionClaims struct {
	Role      string `json:"role"`
	StationID string `json:"station_id,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	signingKey []byte
	ttl        time.Duration
}

func newTokenCodec(signingKey []byte, ttl time.Duration) *tokenCodec {
	return &tokenCodec{signingKey: signingKey, ttl: ttl}
}

func (c *tokenCodec) issue(actor domain.Actor, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(c.ttl)
	claims := sessionClaims{
		Role: string(actor.Role),
		Name: actor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if actor.IsOfficer() {
		claims.StationID = actor.StationID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (c *tokenCodec) verify(tokenString string) (domain.Actor, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return c.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "token carries an unknown role")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "token carries an invalid subject")
	}

	actor := domain.Actor{ID: id, Role: role, Name: claims.Name}
	if role == domain.RoleOfficer {
		stationID, err := domain.ParseStationID(claims.StationID)
		if err != nil {
			return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "officer token missing station")
		}
		actor.StationID = stationID
	}
	return actor, nil
}
