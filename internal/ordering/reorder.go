package ordering

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// bufferGap keeps temporary positions clear of anything a concurrent writer
// may have appended right after the snapshot was taken.
const bufferGap = 5

// ErrNotPermutation is returned when a reorder adds, drops or repeats children.
var ErrNotPermutation = errors.New("desired order is not a permutation of the current children")

// Phase names one of the two rounds of a reorder.
type Phase string

const (
	PhaseBuffer Phase = "buffer"
	PhaseFinal  Phase = "final"
)

// Batch is the set of remote updates needed to move children to new positions
// without two siblings ever sharing one.
type Batch[T any] struct {
	// BufferBase is the first temporary position used by the buffer phase.
	BufferBase int
	// Buffer parks every moving child above all real positions.
	Buffer []T
	// Final puts each child at its target. It runs only after Buffer fully succeeded.
	Final []T
}

// Empty reports whether the batch needs no remote call at all.
func (b Batch[T]) Empty() bool { return len(b.Buffer) == 0 && len(b.Final) == 0 }

// Calls is the number of remote updates the batch issues.
func (b Batch[T]) Calls() int { return len(b.Buffer) + len(b.Final) }

// PlanReorder computes the batch turning initial into desired, where desired
// is the same children in their new order. Targets are 1-based slice indexes
// of desired; children already at their target are not touched.
func PlanReorder[T Repositionable[T]](initial, desired []T) (Batch[T], error) {
	if err := samePermutation(initial, desired); err != nil {
		return Batch[T]{}, err
	}
	return PlanMoves(initial, Normalize(desired)), nil
}

// PlanMoves computes the batch for targets that already carry their final
// positions. Targets whose position equals the one in initial are skipped.
//
// The buffer base is the highest position seen in initial or targets, plus the
// number of moving children, plus a fixed gap.
func PlanMoves[T Repositionable[T]](initial, targets []T) Batch[T] {
	current := make(map[string]int, len(initial))
	highest := 0
	for _, c := range initial {
		current[c.Identity()] = c.Position()
		highest = max(highest, c.Position())
	}

	var moving []T
	for _, t := range targets {
		highest = max(highest, t.Position())
		if pos, ok := current[t.Identity()]; ok && pos == t.Position() {
			continue
		}
		moving = append(moving, t)
	}
	if len(moving) == 0 {
		return Batch[T]{}
	}

	base := highest + len(moving) + bufferGap
	buffer := make([]T, len(moving))
	for i, c := range moving {
		buffer[i] = c.WithPosition(base + i)
	}
	return Batch[T]{BufferBase: base, Buffer: buffer, Final: moving}
}

func samePermutation[T Positioned](initial, desired []T) error {
	if len(initial) != len(desired) {
		return fmt.Errorf("%w: %d children, got %d", ErrNotPermutation, len(initial), len(desired))
	}
	ids := make(map[string]bool, len(initial))
	for _, c := range initial {
		ids[c.Identity()] = false
	}
	for _, c := range desired {
		seen, ok := ids[c.Identity()]
		if !ok || c.Identity() == "" {
			return fmt.Errorf("%w: unknown child %q", ErrNotPermutation, c.Identity())
		}
		if seen {
			return fmt.Errorf("%w: child %q appears twice", ErrNotPermutation, c.Identity())
		}
		ids[c.Identity()] = true
	}
	return nil
}

// UpdateFunc writes one child, including its position, to the remote store.
type UpdateFunc[T any] func(ctx context.Context, child T) error

// PhaseError tells which round of a reorder failed and on which child.
type PhaseError struct {
	Phase   Phase
	ChildID string
	Err     error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("reorder %s phase failed for %s: %v", e.Phase, e.ChildID, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Apply runs the batch: all buffer updates concurrently, then, only if every
// one of them succeeded, all final updates concurrently. limit bounds the
// number of in-flight calls per phase; zero or less means unbounded.
//
// A failed phase returns the first *PhaseError and cancels the context handed
// to its remaining calls. Nothing is retried or rolled back.
func Apply[T Repositionable[T]](ctx context.Context, b Batch[T], update UpdateFunc[T], limit int) error {
	if err := RunPhase(ctx, PhaseBuffer, b.Buffer, update, limit); err != nil {
		return err
	}
	return RunPhase(ctx, PhaseFinal, b.Final, update, limit)
}

// RunPhase issues one update per child concurrently and waits for all of them.
func RunPhase[T Positioned](ctx context.Context, phase Phase, children []T, update UpdateFunc[T], limit int) error {
	if len(children) == 0 {
		return nil
	}
	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, child := range children {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return &PhaseError{Phase: phase, ChildID: child.Identity(), Err: err}
			}
			if err := update(gCtx, child); err != nil {
				return &PhaseError{Phase: phase, ChildID: child.Identity(), Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}
