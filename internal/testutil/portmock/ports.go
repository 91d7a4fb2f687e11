// Package portmock holds function-backed fakes for the collaborators the
// engine reads from or publishes to.
package portmock

import (
	"context"
	"sync"

	"leave-engine/internal/domain/leave"
)

var (
	_ leave.Authorizer = (*Authorizer)(nil)
	_ leave.Directory  = (*Directory)(nil)
	_ leave.Scheduler  = (*Scheduler)(nil)
	_ leave.Notifier   = (*Notifier)(nil)
)

// Authorizer answers from a manager->reports table unless IsManagerOfFn is set.
type Authorizer struct {
	Reports       map[string][]string
	IsManagerOfFn func(ctx context.Context, approverID, userID string) (bool, error)
}

func (a *Authorizer) IsManagerOf(ctx context.Context, approverID, userID string) (bool, error) {
	if a.IsManagerOfFn != nil {
		return a.IsManagerOfFn(ctx, approverID, userID)
	}
	for _, u := range a.Reports[approverID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

// Directory answers from its maps unless DepartmentOfFn is set.
type Directory struct {
	Departments    map[string]string
	Managers       map[string]string
	Err            error
	DepartmentOfFn func(ctx context.Context, userID string) (string, error)
}

func (d *Directory) DepartmentOf(ctx context.Context, userID string) (string, error) {
	if d.DepartmentOfFn != nil {
		return d.DepartmentOfFn(ctx, userID)
	}
	if d.Err != nil {
		return "", d.Err
	}
	return d.Departments[userID], nil
}

func (d *Directory) ManagerOf(ctx context.Context, userID string) (string, error) {
	if d.Err != nil {
		return "", d.Err
	}
	return d.Managers[userID], nil
}

type Scheduler struct {
	Jobs map[string][]leave.JobConflict
	Err  error
}

func (s *Scheduler) JobAssignments(ctx context.Context, userID string, r leave.DateRange) ([]leave.JobConflict, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Jobs[userID], nil
}

// Notifier records every event it is handed.
type Notifier struct {
	mu     sync.Mutex
	events []leave.Event
	Err    error
}

func (n *Notifier) Notify(ctx context.Context, e leave.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.Err
}

func (n *Notifier) Events() []leave.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]leave.Event(nil), n.events...)
}
