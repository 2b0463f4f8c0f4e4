// Package childsync reconciles the desired children of a parent (sessions of a
// plan, exercise executions of a session) with the snapshot last read from the
// server and pushes the difference in an order the server will accept.
package childsync

import (
	"fmt"
	"strings"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

// Child is an ordered child entity that can be diffed.
type Child[T any] interface {
	ordering.Repositionable[T]
	// NaturalKey identifies the child inside its parent besides its id.
	// An empty key is never considered duplicated.
	NaturalKey() string
	Equal(other T) bool
}

// Plan is the set of remote operations a save needs.
type Plan[T any] struct {
	Create []T
	Update []T
	Delete []string
	// Unchanged holds ids present in both lists with identical fields. They
	// produce no call.
	Unchanged []string
}

// Empty reports whether the plan issues no child call.
func (p Plan[T]) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

func (p Plan[T]) String() string {
	return fmt.Sprintf("create=%d update=%d delete=%d unchanged=%d",
		len(p.Create), len(p.Update), len(p.Delete), len(p.Unchanged))
}

// Rule checks the whole desired list before any remote call is made.
type Rule[T any] func(desired []T) error

// Diff partitions desired against initial. Desired children lacking a position
// receive their 1-based index first. Children with an id go to Update, or to
// Unchanged when nothing differs from the snapshot; children without one go to
// Create; snapshot ids missing from desired go to Delete.
//
// Unchanged is a fourth bucket on purpose: a child equal to its snapshot is
// not re-sent, so every snapshot id lands in Update, Unchanged or Delete
// rather than only Update or Delete. That is what makes a repeated save send
// nothing for its children.
func Diff[T Child[T]](initial, desired []T) Plan[T] {
	desired = ordering.FillPositions(desired)

	before := make(map[string]T, len(initial))
	for _, c := range initial {
		before[c.Identity()] = c
	}

	var plan Plan[T]
	kept := make(map[string]struct{}, len(desired))
	for _, c := range desired {
		id := c.Identity()
		if id == "" {
			plan.Create = append(plan.Create, c)
			continue
		}
		kept[id] = struct{}{}
		if old, ok := before[id]; ok && old.Equal(c) {
			plan.Unchanged = append(plan.Unchanged, id)
			continue
		}
		plan.Update = append(plan.Update, c)
	}
	for _, c := range initial {
		if _, ok := kept[c.Identity()]; !ok {
			plan.Delete = append(plan.Delete, c.Identity())
		}
	}
	return plan
}

// Synchronize validates desired and, when it passes, diffs it against initial.
// Rules run first, in order, followed by the structural checks shared by every
// child kind: no repeated natural key, distinct positions within 1..MaxOrderValue,
// and no id unknown to the snapshot.
func Synchronize[T Child[T]](initial, desired []T, rules ...Rule[T]) (Plan[T], error) {
	for _, rule := range rules {
		if err := rule(desired); err != nil {
			return Plan[T]{}, err
		}
	}
	if err := checkStructure(initial, ordering.FillPositions(desired)); err != nil {
		return Plan[T]{}, err
	}
	return Diff(initial, desired), nil
}

func checkStructure[T Child[T]](initial, desired []T) error {
	if len(desired) > domain.MaxOrderValue {
		return repository.NewValidationError("children",
			fmt.Sprintf("at most %d items are allowed", domain.MaxOrderValue))
	}

	known := make(map[string]struct{}, len(initial))
	for _, c := range initial {
		known[c.Identity()] = struct{}{}
	}

	keys := make(map[string]struct{}, len(desired))
	ids := make(map[string]struct{}, len(desired))
	taken := make(map[int]struct{}, len(desired))
	for _, c := range desired {
		if id := c.Identity(); id != "" {
			if _, ok := known[id]; !ok {
				return repository.NewValidationError("id", fmt.Sprintf("unknown item %q", id))
			}
			if _, dup := ids[id]; dup {
				return repository.NewValidationError("id", fmt.Sprintf("item %q listed twice", id))
			}
			ids[id] = struct{}{}
		}

		if key := strings.TrimSpace(c.NaturalKey()); key != "" {
			if _, dup := keys[key]; dup {
				return repository.NewValidationError("reference", fmt.Sprintf("duplicate reference %q", key))
			}
			keys[key] = struct{}{}
		}

		pos := c.Position()
		if pos < 1 || pos > domain.MaxOrderValue {
			return repository.NewValidationError("orderID",
				fmt.Sprintf("Order must be between 1 and %d", domain.MaxOrderValue))
		}
		if _, dup := taken[pos]; dup {
			return repository.NewValidationError("orderID", fmt.Sprintf("Order %d is used twice", pos))
		}
		taken[pos] = struct{}{}
	}
	return nil
}
