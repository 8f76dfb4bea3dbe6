package model

const OverallStatsID = "overall_stats"

// OverallStatsDocument is the latest snapshot of lock and exit queue statistics
type OverallStatsDocument struct {
	ID               string `bson:"_id" json:"id"`                                 // Always "overall_stats"
	TotalLocked      string `bson:"total_locked" json:"total_locked"`             // Locked amount of every non exited lock
	TotalVotingPower string `bson:"total_voting_power" json:"total_voting_power"` // Decimal string
	WarmingUpLocks   uint64 `bson:"warming_up_locks" json:"warming_up_locks"`
	ActiveLocks      uint64 `bson:"active_locks" json:"active_locks"`
	QueuedLocks      uint64 `bson:"queued_locks" json:"queued_locks"`
	ExitedLocks      uint64 `bson:"exited_locks" json:"exited_locks"`
	QueueDepth       uint64 `bson:"queue_depth" json:"queue_depth"`
	NextExitDate     int64  `bson:"next_exit_date" json:"next_exit_date"`
	CurrentFeeBps    uint32 `bson:"current_fee_bps" json:"current_fee_bps"`
	LastUpdated      int64  `bson:"last_updated" json:"last_updated"` // Unix timestamp of last update
}
