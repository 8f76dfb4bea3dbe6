package types

import "fmt"

// Enum values for Lock Status
type LockStatus string

const (
	StatusWarmingUp LockStatus = "WARMING_UP"
	StatusActive    LockStatus = "ACTIVE"
	StatusQueued    LockStatus = "QUEUED"
	StatusExited    LockStatus = "EXITED"
)

func (s LockStatus) String() string {
	return string(s)
}

func ParseLockStatus(s string) (LockStatus, error) {
	switch LockStatus(s) {
	case StatusWarmingUp, StatusActive, StatusQueued, StatusExited:
		return LockStatus(s), nil
	default:
		return "", fmt.Errorf("unknown lock status %q", s)
	}
}

// QualifiedStatesForIncrease returns the states in which amount and duration can be increased
func QualifiedStatesForIncrease() []LockStatus {
	return []LockStatus{StatusWarmingUp, StatusActive}
}

// QualifiedStatesForTransfer returns the states in which ownership can be transferred
func QualifiedStatesForTransfer() []LockStatus {
	return []LockStatus{StatusWarmingUp, StatusActive}
}

// QualifiedStatesForEnterQueue returns the states from which an exit can be requested
func QualifiedStatesForEnterQueue() []LockStatus {
	return []LockStatus{StatusActive}
}

// QualifiedStatesForExit returns the states from which a queued lock can be released
func QualifiedStatesForExit() []LockStatus {
	return []LockStatus{StatusQueued}
}
