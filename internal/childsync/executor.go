package childsync

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

// Op is the class of remote operation that failed.
type Op string

const (
	OpCreate       Op = "create"
	OpUpdate       Op = "update"
	OpDelete       Op = "delete"
	OpParentUpdate Op = "parent update"
)

// OpError reports the first failed call of a batch. Calls already completed
// are not undone.
type OpError struct {
	Op      Op
	ChildID string // empty for creates
	Err     error
}

func (e *OpError) Error() string {
	if e.ChildID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s of %s failed: %v", e.Op, e.ChildID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Writer is the remote surface the executor needs. Every
// repository.ChildRepository satisfies it.
type Writer[T any] interface {
	Create(ctx context.Context, parentID string, child T) (T, error)
	Update(ctx context.Context, child T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Result lists what the server returned for a successful batch.
type Result[T any] struct {
	Created []T
	Updated []T
	Deleted []string
}

// Executor runs a Plan against a Writer.
type Executor[T Child[T]] struct {
	writer Writer[T]
	limit  int
	log    *logger.Logger
}

// NewExecutor creates an executor issuing at most limit concurrent calls per
// step (zero or less: unbounded).
func NewExecutor[T Child[T]](writer Writer[T], limit int, log *logger.Logger) *Executor[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Executor[T]{writer: writer, limit: limit, log: log}
}

// Execute applies plan under parentID. initial is the snapshot the plan was
// diffed from; it decides which updates move a child.
//
// Steps, each awaited before the next:
//  1. deletes, concurrently; a child already gone counts as deleted;
//  2. updates: moving children are parked in the buffer range first, then
//     every update is sent with its final fields;
//  3. creates, concurrently.
//
// The first failure stops the batch and is returned as *OpError.
func (e *Executor[T]) Execute(ctx context.Context, parentID string, initial []T, plan Plan[T]) (Result[T], error) {
	var res Result[T]
	if plan.Empty() {
		return res, nil
	}

	if err := e.deleteAll(ctx, plan.Delete); err != nil {
		return res, err
	}
	res.Deleted = plan.Delete

	updated, err := e.updateAll(ctx, initial, plan.Update)
	if err != nil {
		return res, err
	}
	res.Updated = updated

	created, err := e.createAll(ctx, parentID, plan.Create)
	if err != nil {
		return res, err
	}
	res.Created = created
	return res, nil
}

func (e *Executor[T]) deleteAll(ctx context.Context, ids []string) error {
	g, gCtx := e.group(ctx)
	for _, id := range ids {
		g.Go(func() error {
			err := e.writer.Delete(gCtx, id)
			if err == nil || errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			e.log.Warn().Err(err).Str("op", string(OpDelete)).Str("child_id", id).Msg("delete failed")
			return &OpError{Op: OpDelete, ChildID: id, Err: err}
		})
	}
	return g.Wait()
}

func (e *Executor[T]) updateAll(ctx context.Context, initial, updates []T) ([]T, error) {
	if len(updates) == 0 {
		return nil, nil
	}

	moving, staying := splitMoving(initial, updates)
	batch := ordering.PlanMoves(initial, moving)
	final := make([]T, 0, len(batch.Final)+len(staying))
	final = append(final, batch.Final...)
	final = append(final, staying...)

	if err := ordering.RunPhase(ctx, ordering.PhaseBuffer, batch.Buffer, e.update(nil), e.limit); err != nil {
		return nil, e.wrapPhase(err)
	}

	out := make([]T, len(final))
	index := make(map[string]int, len(final))
	for i, c := range final {
		index[c.Identity()] = i
	}
	if err := ordering.RunPhase(ctx, ordering.PhaseFinal, final, e.update(func(saved T) {
		out[index[saved.Identity()]] = saved
	}), e.limit); err != nil {
		return nil, e.wrapPhase(err)
	}
	return out, nil
}

// splitMoving separates updates that change a child's position from those
// that keep it. Only the former go through the buffer; the rest join the
// final round.
func splitMoving[T Child[T]](initial, updates []T) (moving, staying []T) {
	current := make(map[string]int, len(initial))
	for _, c := range initial {
		current[c.Identity()] = c.Position()
	}
	for _, c := range updates {
		if pos, ok := current[c.Identity()]; ok && pos == c.Position() {
			staying = append(staying, c)
			continue
		}
		moving = append(moving, c)
	}
	return moving, staying
}

// Calls is the number of remote calls Execute issues for plan.
func Calls[T Child[T]](initial []T, plan Plan[T]) int {
	moving, _ := splitMoving(initial, plan.Update)
	return len(plan.Delete) + len(plan.Create) + len(plan.Update) + len(moving)
}

func (e *Executor[T]) update(onSaved func(T)) ordering.UpdateFunc[T] {
	return func(ctx context.Context, child T) error {
		saved, err := e.writer.Update(ctx, child)
		if err != nil {
			e.log.Warn().Err(err).Str("op", string(OpUpdate)).Str("child_id", child.Identity()).
				Int("order_id", child.Position()).Msg("update failed")
			return err
		}
		if onSaved != nil {
			if saved.Identity() == "" {
				saved = child
			}
			onSaved(saved)
		}
		return nil
	}
}

func (e *Executor[T]) wrapPhase(err error) error {
	var pe *ordering.PhaseError
	if errors.As(err, &pe) {
		return &OpError{Op: OpUpdate, ChildID: pe.ChildID, Err: pe}
	}
	return &OpError{Op: OpUpdate, Err: err}
}

func (e *Executor[T]) createAll(ctx context.Context, parentID string, creates []T) ([]T, error) {
	out := make([]T, len(creates))
	g, gCtx := e.group(ctx)
	for i, c := range creates {
		g.Go(func() error {
			saved, err := e.writer.Create(gCtx, parentID, c)
			if err != nil {
				e.log.Warn().Err(err).Str("op", string(OpCreate)).Str("parent_id", parentID).
					Int("order_id", c.Position()).Msg("create failed")
				return &OpError{Op: OpCreate, Err: err}
			}
			out[i] = saved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Executor[T]) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gCtx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	return g, gCtx
}
