package audit

import (
	"time"

	"github.com/google/uuid"

	"caseline/pkg/domain"
)

// Action identifies the lifecycle operation an event records.
type Action string

const (
	ActionComplaintCreated Action = "complaint_created"
	ActionStatusChanged    Action = "status_changed"
	ActionNarrativeAdded   Action = "narrative_added"
	ActionEvidenceAdded    Action = "evidence_added"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time          `json:"timestamp"`
	ComplaintID domain.ComplaintID `json:"complaint_id"`
	ActorID     uuid.UUID          `json:"actor_id"`
	ActorRole   domain.Role        `json:"actor_role"`
	Action      Action             `json:"action"`
	Detail      string             `json:"detail,omitempty"`
}
