// Package ordering maintains the per-app display rank sequences. For every
// consumer app the ranks of all projects form a dense 1..N run; every
// mutation here keeps that invariant by committing all of its rank writes in
// one atomic batch while holding the sequence lock.
package ordering

import (
	"context"
	"fmt"
	"sort"

	"github.com/pedl/portfolio-backend/internal/locks"
	"github.com/pedl/portfolio-backend/internal/projects/domain"
	"github.com/pedl/portfolio-backend/internal/projects/repository"
)

// Service implements rank allocation, rank shifting and compaction.
type Service struct {
	repo   *repository.ProjectRepository
	locker locks.SequenceLocker
	apps   []string
}

func NewService(repo *repository.ProjectRepository, locker locks.SequenceLocker, apps []string) *Service {
	return &Service{repo: repo, locker: locker, apps: apps}
}

// Apps returns the configured app sequences.
func (s *Service) Apps() []string {
	out := make([]string, len(s.apps))
	copy(out, s.apps)
	return out
}

// KnownApp reports whether app names a configured sequence.
func (s *Service) KnownApp(app string) bool {
	for _, a := range s.apps {
		if a == app {
			return true
		}
	}
	return false
}

// LockAll acquires every sequence lock for the projects collection. Create
// and delete flows hold this across their snapshot reads and writes.
func (s *Service) LockAll(ctx context.Context) (locks.Unlock, error) {
	return locks.LockAll(ctx, s.locker, repository.Collection, s.apps)
}

// AssignInitialOrder computes the rank map for a new project: one past the
// highest existing rank in each app, 1 when the app has no projects yet.
// Pure function of the snapshot; the caller must hold all sequence locks so
// the snapshot stays current until the create commits.
func (s *Service) AssignInitialOrder(existing []domain.Project) map[string]int {
	order := make(map[string]int, len(s.apps))
	for _, app := range s.apps {
		highest := 0
		for _, p := range existing {
			if rank, ok := p.Order[app]; ok && rank > highest {
				highest = rank
			}
		}
		order[app] = highest + 1
	}
	return order
}

// InitialVisibility returns the all-hidden visibility map for a new project.
func (s *Service) InitialVisibility() map[string]bool {
	visibility := make(map[string]bool, len(s.apps))
	for _, app := range s.apps {
		visibility[app] = false
	}
	return visibility
}

// UpdateOrder moves one project to newRank within one app sequence,
// shifting only the projects between the old and new rank. All writes land
// in a single atomic batch.
//
// Returns domain.ErrUnknownApp for an unconfigured app, domain.ErrNotFound
// if the project does not exist, domain.ErrSameRank if the project already
// holds newRank, and domain.ErrRankOutOfRange if newRank is outside [1, N].
func (s *Service) UpdateOrder(ctx context.Context, projectID, app string, newRank int) error {
	if !s.KnownApp(app) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownApp, app)
	}

	unlock, err := s.locker.Lock(ctx, repository.Collection, app)
	if err != nil {
		return err
	}
	defer unlock()

	all, err := s.repo.All(ctx)
	if err != nil {
		return err
	}

	var target *domain.Project
	inApp := 0
	for i := range all {
		if _, ok := all[i].Order[app]; ok {
			inApp++
		}
		if all[i].ID == projectID {
			target = &all[i]
		}
	}

	if target == nil {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, projectID)
	}

	current, ok := target.Order[app]
	if !ok {
		// A sequence added to the configuration after this project existed.
		// Without a current rank there is no span to shift; reordering it
		// would strand another project at rank 0.
		return fmt.Errorf("%w: project %q has no rank in app %q", domain.ErrRankOutOfRange, projectID, app)
	}
	if current == newRank {
		return fmt.Errorf("%w: rank %d in app %q", domain.ErrSameRank, newRank, app)
	}
	if newRank < 1 || newRank > inApp {
		return fmt.Errorf("%w: rank %d, sequence %q has %d projects", domain.ErrRankOutOfRange, newRank, app, inApp)
	}

	batch := s.repo.Batch()
	field := repository.OrderField(app)

	for _, p := range all {
		if p.ID == projectID {
			continue
		}
		rank, ok := p.Order[app]
		if !ok {
			continue
		}

		switch {
		case newRank > current && rank > current && rank <= newRank:
			// Moving down: the span (current, newRank] slides up one slot.
			batch.Update(repository.Collection, p.ID, map[string]interface{}{field: rank - 1})
		case newRank < current && rank >= newRank && rank < current:
			// Moving up: the span [newRank, current) slides down one slot.
			batch.Update(repository.Collection, p.ID, map[string]interface{}{field: rank + 1})
		}
	}

	batch.Update(repository.Collection, projectID, map[string]interface{}{field: newRank})
	return batch.Commit(ctx)
}

// CompactAfterDelete closes the gaps a deleted project left behind: in each
// app sequence, every project ranked above the deleted rank moves down one.
// All sequences are compacted in the same atomic batch. The caller must
// hold all sequence locks (it locked them before deleting the document).
func (s *Service) CompactAfterDelete(ctx context.Context, deletedOrder map[string]int) error {
	// Candidates above the deleted rank in several apps show up once per
	// app; merge them by id so each document gets one combined update.
	type pending struct {
		fields map[string]interface{}
	}
	updates := make(map[string]pending)

	for _, app := range s.apps {
		deletedRank, ok := deletedOrder[app]
		if !ok {
			continue
		}

		above, err := s.repo.RanksAbove(ctx, app, deletedRank)
		if err != nil {
			return err
		}

		field := repository.OrderField(app)
		for _, p := range above {
			u, ok := updates[p.ID]
			if !ok {
				u = pending{fields: make(map[string]interface{})}
			}
			u.fields[field] = p.Order[app] - 1
			updates[p.ID] = u
		}
	}

	if len(updates) == 0 {
		return nil
	}

	batch := s.repo.Batch()
	for id, u := range updates {
		batch.Update(repository.Collection, id, u.fields)
	}
	return batch.Commit(ctx)
}

// Violation describes one break of the density invariant.
type Violation struct {
	App    string `json:"app"`
	Detail string `json:"detail"`
}

// CheckDensity verifies that every app sequence is exactly {1..N} over the
// projects carrying a rank for that app.
func (s *Service) CheckDensity(ctx context.Context) ([]Violation, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, app := range s.apps {
		ranks := make([]int, 0, len(all))
		for _, p := range all {
			if rank, ok := p.Order[app]; ok {
				ranks = append(ranks, rank)
			}
		}
		sort.Ints(ranks)

		for i, rank := range ranks {
			if rank != i+1 {
				violations = append(violations, Violation{
					App:    app,
					Detail: fmt.Sprintf("expected rank %d, found %d (N=%d)", i+1, rank, len(ranks)),
				})
				break
			}
		}
	}
	return violations, nil
}
