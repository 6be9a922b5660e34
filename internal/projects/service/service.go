// Package service composes the access policy, the identity verifier and the
// project store into the four project operations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/defectflow/projects-service/internal/auth"
	"github.com/defectflow/projects-service/internal/identity"
	"github.com/defectflow/projects-service/internal/logging"
	"github.com/defectflow/projects-service/internal/projects/domain"
	"github.com/defectflow/projects-service/internal/projects/policy"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Insert(ctx context.Context, np domain.NewProject) (*domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, f domain.ListFilter, skip, limit int) ([]domain.Project, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Project, error)
}

type Service struct {
	store    Store
	verifier identity.Verifier
}

func New(store Store, verifier identity.Verifier) *Service {
	return &Service{store: store, verifier: verifier}
}

// Create inserts a new project after the role check and manager validation.
// Any failed step short-circuits: nothing is persisted on a denied role, an
// unknown manager, or an unreachable auth service.
func (s *Service) Create(ctx context.Context, caller auth.Claims, token string, np domain.NewProject) (*domain.Project, error) {
	if !policy.Decide(policy.OpCreate, caller.Role).Allowed {
		return nil, domain.ErrForbidden
	}

	if err := s.verifier.Verify(ctx, np.ManagerID, token); err != nil {
		return nil, mapIdentityErr(err)
	}

	p, err := s.store.Insert(ctx, np)
	if err != nil {
		return nil, err
	}
	logging.WithComponent("projects.service").
		WithField("project_id", p.ID).
		WithField("manager_id", p.ManagerID).
		Info("project created")
	return p, nil
}

// List returns the projects visible to the caller. Owner-scoped roles only
// ever see projects whose manager_id equals their own identity, regardless
// of the filter they supplied.
func (s *Service) List(ctx context.Context, caller auth.Claims, f domain.ListFilter, skip, limit int) ([]domain.Project, error) {
	if !policy.Decide(policy.OpList, caller.Role).Allowed {
		return nil, domain.ErrForbidden
	}
	return s.store.List(ctx, policy.EffectiveFilter(caller, f), skip, limit)
}

// Get returns a single project. No ownership restriction applies here; the
// policy table keeps that asymmetry with List explicit.
func (s *Service) Get(ctx context.Context, caller auth.Claims, id uuid.UUID) (*domain.Project, error) {
	if !policy.Decide(policy.OpGet, caller.Role).Allowed {
		return nil, domain.ErrForbidden
	}
	return s.store.GetByID(ctx, id)
}

// Update applies a partial update. The manager reference is re-validated
// only when the patch changes it.
func (s *Service) Update(ctx context.Context, caller auth.Claims, token string, id uuid.UUID, patch domain.Patch) (*domain.Project, error) {
	if !policy.Decide(policy.OpUpdate, caller.Role).Allowed {
		return nil, domain.ErrForbidden
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if patch.ManagerID != nil {
		if err := s.verifier.Verify(ctx, *patch.ManagerID, token); err != nil {
			return nil, mapIdentityErr(err)
		}
	}

	return s.store.Update(ctx, id, patch)
}

func mapIdentityErr(err error) error {
	switch {
	case errors.Is(err, identity.ErrNotFound):
		return domain.ErrManagerNotFound
	case errors.Is(err, identity.ErrUnavailable):
		return domain.ErrIdentityUnavailable
	default:
		return fmt.Errorf("verify manager: %w", err)
	}
}
