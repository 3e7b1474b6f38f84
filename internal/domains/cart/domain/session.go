package domain

// State enumerates the per-session cart lifecycle.
type State string

const (
	StateEmpty     State = "empty"
	StateRestoring State = "restoring"
	StateCreating  State = "creating"
	StateReady     State = "ready"
	StateMutating  State = "mutating"
)

// RestoreOutcome reports what a restoration attempt did.
type RestoreOutcome string

const (
	// RestoreSkipped means restoration already ran for this session.
	RestoreSkipped  RestoreOutcome = "skipped"
	RestoreNoCartID RestoreOutcome = "empty"
	RestoreRestored RestoreOutcome = "restored"
	// RestoreNotFound means the persisted cart no longer exists remotely.
	RestoreNotFound RestoreOutcome = "not_found"
	RestoreFailed   RestoreOutcome = "failed"
)

// Snapshot is a consistent read view of one session's cart state.
type Snapshot struct {
	Cart    *Cart
	Loading bool
	Error   string
	IsOpen  bool
	State   State
}

// ItemCount returns the last known total quantity, or zero without a cart.
func (s Snapshot) ItemCount() int {
	if s.Cart == nil {
		return 0
	}
	return s.Cart.TotalQuantity
}

// ZeroQuantityPolicy decides what a decrement reaching zero does.
type ZeroQuantityPolicy int

const (
	// ZeroQuantityRemove deletes the line. This mirrors the sidebar's behaviour.
	ZeroQuantityRemove ZeroQuantityPolicy = iota
	// ZeroQuantityClamp keeps the line at quantity one.
	ZeroQuantityClamp
)
