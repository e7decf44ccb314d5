package audit

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue name for audit jobs.
	QueueDefault = "default"
	// TaskTypeRecord is the task type for persisting one audit event.
	TaskTypeRecord = "audit:record"
)

// Event describes one security-relevant action. Secrets never appear here:
// payloads carry ids and action names only.
type Event struct {
	ActorID  int64     `json:"actor_id"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Audit actions recorded by the credential and user subsystems.
const (
	ActionLogin          = "auth.login"
	ActionPasswordChange = "auth.password_change"
	ActionPasswordReset  = "auth.password_reset"
	ActionUserPromote    = "users.promote"
	ActionUserDemote     = "users.demote"
	ActionUserDelete     = "users.delete"
)

// NewRecordTask constructs an Asynq task for the event.
func NewRecordTask(event Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecord, data), nil
}
