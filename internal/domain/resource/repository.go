package resource

import (
	"context"

	"github.com/flexprice/mgmt/internal/types"
)

// Repository stores registered resources keyed by object name.
// Get, Update and Remove of an unregistered name return an error matching
// ierr.ErrInstanceNotFound; Add of a registered name returns one matching
// ierr.ErrInstanceAlreadyExists.
type Repository interface {
	Add(ctx context.Context, r *Resource) error
	Get(ctx context.Context, name types.ObjectName) (*Resource, error)
	Update(ctx context.Context, r *Resource) error
	Remove(ctx context.Context, name types.ObjectName) error
	Contains(ctx context.Context, name types.ObjectName) bool
	// Query returns the resources whose names match pattern, all of them when
	// pattern is nil
	Query(ctx context.Context, pattern *types.ObjectName) ([]*Resource, error)
	Count(ctx context.Context) int
	Domains(ctx context.Context) []string
}
