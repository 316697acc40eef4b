package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "caseline/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant: IDs must be
// valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseComplaintID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseComplaintID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseComplaintID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseComplaintID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ComplaintID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ID
// kinds. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	victimID := VictimID(uuid.New())
	officerID := OfficerID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ VictimID = officerID  // compile error
	// var _ OfficerID = victimID  // compile error

	assert.NotEqual(t, uuid.UUID(victimID), uuid.UUID(officerID))
}

func TestParseRole(t *testing.T) {
	t.Run("accepts session roles", func(t *testing.T) {
		for _, raw := range []string{"VICTIM", "OFFICER"} {
			role, err := ParseRole(raw)
			require.NoError(t, err)
			assert.Equal(t, Role(raw), role)
		}
	})

	t.Run("rejects SYSTEM and unknown roles", func(t *testing.T) {
		for _, raw := range []string{"SYSTEM", "", "admin", "victim"} {
			_, err := ParseRole(raw)
			require.Error(t, err, "role %q", raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}
