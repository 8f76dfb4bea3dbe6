package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/vetdao/governance-locks/internal/db/model"
)

const (
	secondsPerDay = 86400
	lockDays      = 365
	warmupDays    = 7
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns an error
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

// FakeLockDocument is a one year lock with a random owner, amount and start
func FakeLockDocument(id uint64) *model.LockDocument {
	start := int64(gofakeit.Number(1_700_000_000, 1_800_000_000))

	return &model.LockDocument{
		ID:        id,
		Owner:     gofakeit.UUID(),
		Amount:    gofakeit.DigitN(12),
		LockStart: start,
		LockEnd:   start + secondsPerDay*lockDays,
		WarmupEnd: start + secondsPerDay*warmupDays,
		UpdatedAt: start,
	}
}

// FakeExitQueueDocument queues lock at its lock end with the given cooldown
func FakeExitQueueDocument(lock *model.LockDocument, cooldown int64, feeBps uint32) *model.ExitQueueDocument {
	return &model.ExitQueueDocument{
		LockID:          lock.ID,
		Owner:           lock.Owner,
		Amount:          lock.Amount,
		RequestedAt:     lock.LockEnd,
		ScheduledExitAt: lock.LockEnd + cooldown,
		FeeBps:          feeBps,
	}
}
