package lockengine

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/types"
)

type Operation string

const (
	OpCreate           Operation = "create"
	OpIncreaseAmount   Operation = "increase_amount"
	OpIncreaseDuration Operation = "increase_duration"
	OpTransfer         Operation = "transfer"
	OpEnterQueue       Operation = "enter_queue"
	OpCancelExit       Operation = "cancel_exit"
	OpExit             Operation = "exit"
)

func (o Operation) String() string {
	return string(o)
}

// Change describes a mutation about to be committed. Previous is nil for OpCreate.
type Change struct {
	Op       Operation
	At       time.Time
	Previous *Lock
	Current  Lock
}

// CommitFunc runs inside the critical section of the mutated lock before the
// change becomes visible. A non-nil error aborts the mutation.
type CommitFunc func(ctx context.Context, change Change) error

type Option func(*Registry)

// WithCommitHook installs f to be called for every mutation
func WithCommitHook(f CommitFunc) Option {
	return func(r *Registry) {
		r.commit = f
	}
}

type lockSlot struct {
	mu   sync.Mutex
	lock Lock
}

// Registry is the authoritative arena of locks. Mutations of one lock are
// serialized by the lock's own mutex, mutations of different locks run
// concurrently. The arena mutex guards only the maps, and is never acquired
// while waiting for a lock mutex.
type Registry struct {
	mu     sync.RWMutex
	locks  map[uint64]*lockSlot
	owners map[string]map[uint64]struct{}

	lastID atomic.Uint64
	params atomic.Pointer[Params]
	queue  *exitQueue
	commit CommitFunc
}

func NewRegistry(params *Params, opts ...Option) (*Registry, error) {
	if params == nil {
		return nil, fmt.Errorf("params are required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	r := &Registry{
		locks:  make(map[uint64]*lockSlot),
		owners: make(map[string]map[uint64]struct{}),
		queue:  newExitQueue(),
	}
	r.params.Store(params)
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Params returns the current configuration snapshot
func (r *Registry) Params() *Params {
	return r.params.Load()
}

// UpdateParams replaces the configuration for subsequent operations. Values
// already captured on existing locks and queue entries are left untouched.
func (r *Registry) UpdateParams(params *Params) error {
	if params == nil {
		return fmt.Errorf("params are required")
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	r.params.Store(params)
	return nil
}

func (r *Registry) CreateLock(
	ctx context.Context, owner string, amount math.Int, duration time.Duration, now time.Time,
) (Lock, error) {
	params := r.params.Load()

	if owner == "" {
		return Lock{}, errInvalidParams("owner is required")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return Lock{}, errInvalidParams("amount must be positive")
	}
	if duration < params.MinDuration {
		return Lock{}, errInvalidParams("duration %s is shorter than minimum %s", duration, params.MinDuration)
	}
	if params.MaxDuration > 0 && duration > params.MaxDuration {
		return Lock{}, errInvalidParams("duration %s exceeds maximum %s", duration, params.MaxDuration)
	}

	lock := Lock{
		ID:        r.lastID.Add(1),
		Owner:     owner,
		Amount:    amount,
		LockStart: now,
		LockEnd:   now.Add(duration),
		WarmupEnd: now.Add(params.WarmupDuration),
	}

	// nobody else can reach the slot before it is inserted below
	if err := r.runCommit(ctx, Change{Op: OpCreate, At: now, Current: lock.clone()}); err != nil {
		return Lock{}, err
	}

	r.mu.Lock()
	r.locks[lock.ID] = &lockSlot{lock: lock}
	r.indexOwnerLocked(lock.Owner, lock.ID)
	r.mu.Unlock()

	return lock.clone(), nil
}

func (r *Registry) IncreaseAmount(ctx context.Context, id uint64, additional math.Int, now time.Time) (Lock, error) {
	if additional.IsNil() || !additional.IsPositive() {
		return Lock{}, types.NewErrorWithMsg(http.StatusBadRequest, types.InvalidAmount, "additional amount must be positive")
	}

	return r.mutate(ctx, id, OpIncreaseAmount, now, func(next *Lock, _ *Params) error {
		if status := next.Status(now); !slices.Contains(types.QualifiedStatesForIncrease(), status) {
			return errExitedOrQueued(id, status)
		}
		next.Amount = next.Amount.Add(additional)
		return nil
	}, nil)
}

func (r *Registry) IncreaseDuration(ctx context.Context, id uint64, newLockEnd time.Time, now time.Time) (Lock, error) {
	return r.mutate(ctx, id, OpIncreaseDuration, now, func(next *Lock, params *Params) error {
		if status := next.Status(now); !slices.Contains(types.QualifiedStatesForIncrease(), status) {
			return errExitedOrQueued(id, status)
		}
		if !newLockEnd.After(next.LockEnd) {
			return types.NewErrorWithMsg(
				http.StatusBadRequest,
				types.DurationNotIncreasing,
				fmt.Sprintf("new lock end %s is not after current lock end %s", newLockEnd.UTC(), next.LockEnd.UTC()),
			)
		}
		if params.MaxDuration > 0 && newLockEnd.Sub(now) > params.MaxDuration {
			return errInvalidParams("remaining term %s exceeds maximum %s", newLockEnd.Sub(now), params.MaxDuration)
		}
		next.LockEnd = newLockEnd
		return nil
	}, nil)
}

func (r *Registry) TransferLock(ctx context.Context, id uint64, newOwner string, now time.Time) (Lock, error) {
	if newOwner == "" {
		return Lock{}, errInvalidParams("new owner is required")
	}

	return r.mutate(ctx, id, OpTransfer, now, func(next *Lock, params *Params) error {
		if !params.Transferable {
			return types.NewErrorWithMsg(http.StatusForbidden, types.TransfersDisabled, "lock transfers are disabled")
		}
		if status := next.Status(now); !slices.Contains(types.QualifiedStatesForTransfer(), status) {
			return errExitedOrQueued(id, status)
		}
		next.Owner = newOwner
		return nil
	}, func(prev, next Lock) {
		if prev.Owner == next.Owner {
			return
		}
		r.mu.Lock()
		r.unindexOwnerLocked(prev.Owner, id)
		r.indexOwnerLocked(next.Owner, id)
		r.mu.Unlock()
	})
}

func (r *Registry) GetLock(id uint64) (Lock, error) {
	slot, err := r.slot(id)
	if err != nil {
		return Lock{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.lock.clone(), nil
}

func (r *Registry) GetStatus(id uint64, now time.Time) (types.LockStatus, error) {
	lock, err := r.GetLock(id)
	if err != nil {
		return "", err
	}
	return lock.Status(now), nil
}

// LocksByOwner returns the owner's locks ordered by id
func (r *Registry) LocksByOwner(owner string) []Lock {
	r.mu.RLock()
	slots := make([]*lockSlot, 0, len(r.owners[owner]))
	for id := range r.owners[owner] {
		slots = append(slots, r.locks[id])
	}
	r.mu.RUnlock()

	locks := make([]Lock, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		// the lock may have been transferred since the index was read
		if slot.lock.Owner == owner {
			locks = append(locks, slot.lock.clone())
		}
		slot.mu.Unlock()
	}
	sortByID(locks)

	return locks
}

// Locks returns a snapshot of every lock ordered by id
func (r *Registry) Locks() []Lock {
	r.mu.RLock()
	slots := make([]*lockSlot, 0, len(r.locks))
	for _, slot := range r.locks {
		slots = append(slots, slot)
	}
	r.mu.RUnlock()

	locks := make([]Lock, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		locks = append(locks, slot.lock.clone())
		slot.mu.Unlock()
	}
	sortByID(locks)

	return locks
}

// Restore loads previously persisted locks into an empty registry and
// rebuilds the owner and exit queue indexes.
func (r *Registry) Restore(locks []Lock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.locks) > 0 {
		return fmt.Errorf("registry already holds %d locks", len(r.locks))
	}

	var maxID uint64
	seen := make(map[uint64]struct{}, len(locks))
	for _, lock := range locks {
		if err := checkRestoredLock(lock); err != nil {
			return err
		}
		if _, ok := seen[lock.ID]; ok {
			return fmt.Errorf("duplicate lock id %d", lock.ID)
		}
		seen[lock.ID] = struct{}{}
	}

	for _, lock := range locks {
		lock = lock.clone()
		r.locks[lock.ID] = &lockSlot{lock: lock}
		r.indexOwnerLocked(lock.Owner, lock.ID)
		if lock.ExitEntry != nil {
			r.queue.insert(*lock.ExitEntry)
		}
		maxID = max(maxID, lock.ID)
	}
	r.lastID.Store(maxID)

	return nil
}

func checkRestoredLock(lock Lock) error {
	switch {
	case lock.ID == 0:
		return fmt.Errorf("lock id must be positive")
	case lock.Amount.IsNil() || lock.Amount.IsNegative():
		return fmt.Errorf("lock %d has negative amount", lock.ID)
	case lock.WarmupEnd.Before(lock.LockStart):
		return fmt.Errorf("lock %d warmup ends before lock start", lock.ID)
	case lock.LockEnd.Before(lock.LockStart):
		return fmt.Errorf("lock %d ends before lock start", lock.ID)
	case lock.ExitEntry != nil && lock.ExitEntry.LockID != lock.ID:
		return fmt.Errorf("lock %d has an exit entry of lock %d", lock.ID, lock.ExitEntry.LockID)
	case lock.ExitEntry != nil && lock.Receipt != nil:
		return fmt.Errorf("lock %d is both queued and exited", lock.ID)
	case lock.Receipt != nil && !lock.Amount.IsZero():
		return fmt.Errorf("exited lock %d still holds an amount", lock.ID)
	}
	return nil
}

func (r *Registry) slot(id uint64) (*lockSlot, error) {
	r.mu.RLock()
	slot, ok := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errLockNotFound(id)
	}
	return slot, nil
}

// mutate applies fn to a copy of the lock under the lock's mutex, runs the
// commit hook and publishes the copy. onCommit runs after a successful
// commit, still inside the critical section.
func (r *Registry) mutate(
	ctx context.Context,
	id uint64,
	op Operation,
	now time.Time,
	fn func(next *Lock, params *Params) error,
	onCommit func(prev, next Lock),
) (Lock, error) {
	slot, err := r.slot(id)
	if err != nil {
		return Lock{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	params := r.params.Load()
	prev := slot.lock.clone()
	next := slot.lock.clone()
	if err := fn(&next, params); err != nil {
		return Lock{}, err
	}

	if err := r.runCommit(ctx, Change{Op: op, At: now, Previous: &prev, Current: next.clone()}); err != nil {
		return Lock{}, err
	}

	slot.lock = next
	if onCommit != nil {
		onCommit(prev, next)
	}

	return next.clone(), nil
}

func (r *Registry) runCommit(ctx context.Context, change Change) error {
	if r.commit == nil {
		return nil
	}
	if err := r.commit(ctx, change); err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to commit %s of lock %d: %w", change.Op, change.Current.ID, err),
		)
	}
	return nil
}

func (r *Registry) indexOwnerLocked(owner string, id uint64) {
	ids, ok := r.owners[owner]
	if !ok {
		ids = make(map[uint64]struct{})
		r.owners[owner] = ids
	}
	ids[id] = struct{}{}
}

func (r *Registry) unindexOwnerLocked(owner string, id uint64) {
	ids := r.owners[owner]
	delete(ids, id)
	if len(ids) == 0 {
		delete(r.owners, owner)
	}
}

func sortByID(locks []Lock) {
	slices.SortFunc(locks, func(a, b Lock) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
