package service

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/mgmt/internal/api/dto"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/query"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"
)

const (
	// DelegateName is the name of the resource describing the server itself
	DelegateName      = "mgmt:type=ServerDelegate"
	DelegateClassName = "ServerDelegate"

	ImplementationName    = "mgmt"
	ImplementationVersion = "1.0.0"
)

// DelegateObjectName returns the parsed name of the server delegate
func DelegateObjectName() types.ObjectName {
	return types.MustParseObjectName(DelegateName)
}

// ManagementService registers managed resources and dispatches management
// operations against them
type ManagementService interface {
	RegisterResource(ctx context.Context, req *dto.RegisterResourceRequest) (*resource.Resource, error)
	UnregisterResource(ctx context.Context, name types.ObjectName) error
	GetResource(ctx context.Context, name types.ObjectName) (*resource.Resource, error)
	IsRegistered(ctx context.Context, name types.ObjectName) bool
	GetAttribute(ctx context.Context, name types.ObjectName, attribute string) (any, error)
	// GetAttributes returns the requested attributes that exist; unknown
	// attributes are left out of the result
	GetAttributes(ctx context.Context, name types.ObjectName, attributes []string) (map[string]any, error)
	SetAttribute(ctx context.Context, req *dto.SetAttributeRequest) error
	// QueryNames returns the names matching pattern (all when nil) whose
	// resources satisfy exp (all when nil), sorted by canonical name
	QueryNames(ctx context.Context, pattern *types.ObjectName, exp query.Exp) ([]types.ObjectName, error)
	QueryResources(ctx context.Context, pattern *types.ObjectName, exp query.Exp) ([]*resource.Resource, error)
	GetResourceCount(ctx context.Context) int
	GetDomains(ctx context.Context) []string
	GetDefaultDomain() string
}

type managementService struct {
	// mu serialises read-modify-write sequences against the repository
	mu       sync.Mutex
	repo     resource.Repository
	notifier Notifier
	config   *config.Configuration
	logger   *logger.Logger
	delegate types.ObjectName
}

// NewManagementService creates the service and registers the server delegate
func NewManagementService(
	repo resource.Repository,
	notifier Notifier,
	cfg *config.Configuration,
	logger *logger.Logger,
) (ManagementService, error) {
	s := &managementService{
		repo:     repo,
		notifier: notifier,
		config:   cfg,
		logger:   logger,
		delegate: DelegateObjectName(),
	}

	_, err := s.register(context.Background(), &resource.Resource{
		Name:        s.delegate,
		ClassName:   DelegateClassName,
		Description: "Describes the management server",
		Attributes: map[string]any{
			"ServerID":              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SERVER),
			"DefaultDomain":         cfg.Management.DefaultDomain,
			"ImplementationName":    ImplementationName,
			"ImplementationVersion": ImplementationVersion,
			"StartedAt":             time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *managementService) GetDefaultDomain() string {
	return s.config.Management.DefaultDomain
}

// resolve places names given without a domain into the default domain
func (s *managementService) resolve(name types.ObjectName) (types.ObjectName, error) {
	if name.IsZero() {
		return name, ierr.NewError("object name is required").
			WithHint("Object name is required").
			Mark(ierr.ErrValidation)
	}
	if name.Domain() != "" {
		return name, nil
	}
	return name.WithDomain(s.GetDefaultDomain())
}

func (s *managementService) RegisterResource(ctx context.Context, req *dto.RegisterResourceRequest) (*resource.Resource, error) {
	if req == nil {
		return nil, ierr.NewError("request cannot be nil").
			WithHint("Request cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name, err := types.ParseObjectName(req.Name)
	if err != nil {
		return nil, err
	}
	if name.IsPattern() {
		return nil, ierr.NewError("cannot register a pattern").
			WithHintf("%s is a pattern and cannot name a resource", name).
			Mark(ierr.ErrMalformedObjectName)
	}
	if name, err = s.resolve(name); err != nil {
		return nil, err
	}

	return s.register(ctx, req.ToResource(name))
}

func (s *managementService) register(ctx context.Context, r *resource.Resource) (*resource.Resource, error) {
	r.RegistrationID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REGISTRATION)
	r.RegisteredAt = time.Now().UTC()

	if err := s.repo.Add(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Infow("resource registered",
		"name", r.Name.String(),
		"class_name", r.ClassName,
		"registration_id", r.RegistrationID,
	)

	if err := s.notifier.Notify(ctx, resource.NotificationRegistered, r); err != nil {
		s.logger.Warnw("failed to send registration notification", "name", r.Name.String(), "error", err)
	}
	return r, nil
}

func (s *managementService) UnregisterResource(ctx context.Context, name types.ObjectName) error {
	name, err := s.resolve(name)
	if err != nil {
		return err
	}
	if name.Equal(s.delegate) {
		return ierr.NewError("cannot unregister the server delegate").
			WithHintf("%s cannot be unregistered", name).
			Mark(ierr.ErrInvalidOperation)
	}

	s.mu.Lock()
	r, err := s.repo.Get(ctx, name)
	if err == nil {
		err = s.repo.Remove(ctx, name)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Infow("resource unregistered", "name", name.String(), "registration_id", r.RegistrationID)

	if err := s.notifier.Notify(ctx, resource.NotificationUnregistered, r); err != nil {
		s.logger.Warnw("failed to send unregistration notification", "name", name.String(), "error", err)
	}
	return nil
}

func (s *managementService) GetResource(ctx context.Context, name types.ObjectName) (*resource.Resource, error) {
	name, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, name)
}

func (s *managementService) IsRegistered(ctx context.Context, name types.ObjectName) bool {
	name, err := s.resolve(name)
	if err != nil {
		return false
	}
	return s.repo.Contains(ctx, name)
}

func (s *managementService) GetAttribute(ctx context.Context, name types.ObjectName, attribute string) (any, error) {
	r, err := s.GetResource(ctx, name)
	if err != nil {
		return nil, err
	}

	v, ok := r.Attribute(attribute)
	if !ok {
		return nil, attributeNotFound(r.Name, attribute)
	}
	return v, nil
}

func (s *managementService) GetAttributes(ctx context.Context, name types.ObjectName, attributes []string) (map[string]any, error) {
	r, err := s.GetResource(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(attributes) == 0 {
		return r.Attributes, nil
	}
	return lo.PickByKeys(r.Attributes, attributes), nil
}

func (s *managementService) SetAttribute(ctx context.Context, req *dto.SetAttributeRequest) error {
	if req == nil {
		return ierr.NewError("request cannot be nil").
			WithHint("Request cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	name, err := types.ParseObjectName(req.Name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.GetResource(ctx, name)
	if err != nil {
		return err
	}

	current, ok := r.Attribute(req.Attribute)
	if !ok {
		return attributeNotFound(r.Name, req.Attribute)
	}
	if !r.IsWritable(req.Attribute) {
		return ierr.NewError("attribute is read-only").
			WithHintf("Attribute %s of %s is read-only", req.Attribute, r.Name).
			WithReportableDetails(map[string]any{
				"name":      r.Name.String(),
				"attribute": req.Attribute,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if !query.CompatibleValue(current, req.Value) {
		return ierr.WithError(ierr.NewBadAttributeValueError(req.Value)).
			WithHintf("Value for attribute %s has the wrong type", req.Attribute).
			WithReportableDetails(map[string]any{
				"name":      r.Name.String(),
				"attribute": req.Attribute,
			}).
			Mark(ierr.ErrInvalidAttributeValue)
	}

	r.Attributes[req.Attribute] = req.Value
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}

	s.logger.Debugw("attribute set", "name", r.Name.String(), "attribute", req.Attribute)
	return nil
}

func (s *managementService) QueryNames(ctx context.Context, pattern *types.ObjectName, exp query.Exp) ([]types.ObjectName, error) {
	resources, err := s.QueryResources(ctx, pattern, exp)
	if err != nil {
		return nil, err
	}
	return lo.Map(resources, func(r *resource.Resource, _ int) types.ObjectName {
		return r.Name
	}), nil
}

func (s *managementService) QueryResources(ctx context.Context, pattern *types.ObjectName, exp query.Exp) ([]*resource.Resource, error) {
	if pattern != nil && pattern.Domain() == "" {
		resolved, err := s.resolve(*pattern)
		if err != nil {
			return nil, err
		}
		pattern = &resolved
	}

	candidates, err := s.repo.Query(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return candidates, nil
	}

	mapper := iter.Mapper[*resource.Resource, bool]{
		MaxGoroutines: s.config.Management.QueryConcurrency,
	}
	matched := mapper.Map(candidates, func(r **resource.Resource) bool {
		if ctx.Err() != nil {
			return false
		}
		ok, err := query.Evaluate(exp, target{r: *r})
		if err != nil {
			// a resource the expression cannot be evaluated against does not match
			s.logger.Debugw("query evaluation failed",
				"name", (*r).Name.String(),
				"query", exp.String(),
				"error", err,
			)
			return false
		}
		return ok
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return lo.Filter(candidates, func(_ *resource.Resource, i int) bool {
		return matched[i]
	}), nil
}

func (s *managementService) GetResourceCount(ctx context.Context) int {
	return s.repo.Count(ctx)
}

func (s *managementService) GetDomains(ctx context.Context) []string {
	return s.repo.Domains(ctx)
}

func attributeNotFound(name types.ObjectName, attribute string) error {
	return ierr.NewError("attribute not found").
		WithHintf("Attribute %s not found on %s", attribute, name).
		WithReportableDetails(map[string]any{
			"name":      name.String(),
			"attribute": attribute,
		}).
		Mark(ierr.ErrAttributeNotFound)
}

// target adapts a resource to query.Target
type target struct {
	r *resource.Resource
}

func (t target) ObjectName() types.ObjectName { return t.r.Name }

func (t target) ClassName() string { return t.r.ClassName }

func (t target) Attribute(name string) (any, bool) { return t.r.Attribute(name) }
