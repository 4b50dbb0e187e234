package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/types"
	goCache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

// ResourceRepository implements resource.Repository on top of
// github.com/patrickmn/go-cache. Entries never expire; they live until removed.
type ResourceRepository struct {
	// mu serialises writes so check-then-act sequences stay atomic
	mu     sync.Mutex
	cache  *goCache.Cache
	logger *logger.Logger
}

// NewResourceRepository creates an empty repository
func NewResourceRepository(logger *logger.Logger) resource.Repository {
	return &ResourceRepository{
		cache:  goCache.New(goCache.NoExpiration, 0),
		logger: logger,
	}
}

func key(name types.ObjectName) string {
	return name.Canonical()
}

func (s *ResourceRepository) Add(ctx context.Context, r *resource.Resource) error {
	if err := validateResource(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Add(key(r.Name), r.Copy(), goCache.NoExpiration); err != nil {
		return ierr.NewError("instance already exists").
			WithHintf("A resource is already registered as %s", r.Name).
			WithReportableDetails(map[string]any{
				"name": r.Name.String(),
			}).
			Mark(ierr.ErrInstanceAlreadyExists)
	}

	s.logger.Debugw("resource stored", "name", r.Name.String(), "registration_id", r.RegistrationID)
	return nil
}

func (s *ResourceRepository) Get(ctx context.Context, name types.ObjectName) (*resource.Resource, error) {
	item, found := s.cache.Get(key(name))
	if !found {
		return nil, instanceNotFound(name)
	}
	return item.(*resource.Resource).Copy(), nil
}

func (s *ResourceRepository) Update(ctx context.Context, r *resource.Resource) error {
	if err := validateResource(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Replace(key(r.Name), r.Copy(), goCache.NoExpiration); err != nil {
		return instanceNotFound(r.Name)
	}
	return nil
}

func (s *ResourceRepository) Remove(ctx context.Context, name types.ObjectName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(name)
	if _, found := s.cache.Get(k); !found {
		return instanceNotFound(name)
	}
	s.cache.Delete(k)

	s.logger.Debugw("resource removed", "name", name.String())
	return nil
}

func (s *ResourceRepository) Contains(ctx context.Context, name types.ObjectName) bool {
	_, found := s.cache.Get(key(name))
	return found
}

func (s *ResourceRepository) Query(ctx context.Context, pattern *types.ObjectName) ([]*resource.Resource, error) {
	items := s.cache.Items()

	result := make([]*resource.Resource, 0, len(items))
	for _, item := range items {
		r := item.Object.(*resource.Resource)
		if pattern != nil && !pattern.Apply(r.Name) {
			continue
		}
		result = append(result, r.Copy())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name.Canonical() < result[j].Name.Canonical()
	})
	return result, nil
}

func (s *ResourceRepository) Count(ctx context.Context) int {
	return s.cache.ItemCount()
}

func (s *ResourceRepository) Domains(ctx context.Context) []string {
	domains := lo.Uniq(lo.MapToSlice(s.cache.Items(), func(_ string, item goCache.Item) string {
		return item.Object.(*resource.Resource).Name.Domain()
	}))
	sort.Strings(domains)
	return domains
}

func validateResource(r *resource.Resource) error {
	if r == nil {
		return ierr.NewError("resource cannot be nil").
			WithHint("Resource cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if r.Name.IsZero() {
		return ierr.NewError("resource name is required").
			WithHint("Resource name is required").
			Mark(ierr.ErrValidation)
	}
	if r.Name.IsPattern() {
		return ierr.NewError("resource name cannot be a pattern").
			WithHintf("%s is a pattern and cannot name a resource", r.Name).
			Mark(ierr.ErrMalformedObjectName)
	}
	return nil
}

func instanceNotFound(name types.ObjectName) error {
	return ierr.WithError(ierr.NewInstanceNotFoundErrorForName(name)).
		WithHintf("No resource is registered as %s", name).
		WithReportableDetails(map[string]any{
			"name": name.String(),
		}).
		Mark(ierr.ErrInstanceNotFound)
}
