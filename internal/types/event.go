package types

import "strings"

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventLockCreated     EventType = "LOCK_CREATED"
	EventLockIncreased   EventType = "LOCK_INCREASED"
	EventLockExtended    EventType = "LOCK_EXTENDED"
	EventLockTransferred EventType = "LOCK_TRANSFERRED"
)

const (
	EventExitRequested EventType = "EXIT_REQUESTED"
	EventExitCancelled EventType = "EXIT_CANCELLED"
	EventExitClaimable EventType = "EXIT_CLAIMABLE"
	EventLockExited    EventType = "LOCK_EXITED"
)

const LockEventSchemaVersion = 1

// LockEvent is the message published for every committed lock change and for
// exits becoming claimable. Amounts are decimal strings, times unix seconds.
type LockEvent struct {
	SchemaVersion   int       `json:"schema_version"`
	EventType       EventType `json:"event_type"`
	LockID          uint64    `json:"lock_id"`
	Owner           string    `json:"owner"`
	PreviousOwner   string    `json:"previous_owner,omitempty"`
	Amount          string    `json:"amount"`
	LockEnd         int64     `json:"lock_end"`
	ScheduledExitAt int64     `json:"scheduled_exit_at,omitempty"`
	FeeBps          uint32    `json:"fee_bps,omitempty"`
	Released        string    `json:"released,omitempty"`
	Fee             string    `json:"fee,omitempty"`
	Timestamp       int64     `json:"timestamp"`
}

// RoutingKey is the lower case event type, e.g. lock_created
func (e *LockEvent) RoutingKey() string {
	return strings.ToLower(e.EventType.String())
}
