package service

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/flexprice/mgmt/internal/api/dto"
	"github.com/flexprice/mgmt/internal/config"
	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/pubsub"
	pubsubMemory "github.com/flexprice/mgmt/internal/pubsub/memory"
	"github.com/flexprice/mgmt/internal/query"
	"github.com/flexprice/mgmt/internal/repository/memory"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ManagementServiceSuite struct {
	suite.Suite
	ctx     context.Context
	cfg     *config.Configuration
	pubsub  pubsub.PubSub
	service ManagementService
}

func TestManagementService(t *testing.T) {
	suite.Run(t, new(ManagementServiceSuite))
}

func (s *ManagementServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	log := logger.NewNopLogger()
	s.pubsub = pubsubMemory.NewPubSub(log)

	svc, err := NewManagementService(
		memory.NewResourceRepository(log),
		NewNotifier(s.pubsub, s.cfg, log),
		s.cfg,
		log,
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ManagementServiceSuite) TearDownTest() {
	s.Require().NoError(s.pubsub.Close())
}

func (s *ManagementServiceSuite) register(name, className string, attrs map[string]any, writable ...string) *resource.Resource {
	r, err := s.service.RegisterResource(s.ctx, &dto.RegisterResourceRequest{
		Name:       name,
		ClassName:  className,
		Attributes: attrs,
		Writable:   writable,
	})
	s.Require().NoError(err)
	return r
}

func (s *ManagementServiceSuite) TestRegisterResource() {
	testCases := []struct {
		name        string
		input       *dto.RegisterResourceRequest
		expectedErr func(error) bool
	}{
		{
			name:  "successful_registration",
			input: &dto.RegisterResourceRequest{Name: "app:type=Cache,name=users", ClassName: "LRUCache"},
		},
		{
			name:        "nil_request",
			input:       nil,
			expectedErr: ierr.IsValidation,
		},
		{
			name:        "missing_class_name",
			input:       &dto.RegisterResourceRequest{Name: "app:type=Cache"},
			expectedErr: ierr.IsValidation,
		},
		{
			name:        "malformed_name",
			input:       &dto.RegisterResourceRequest{Name: "no-domain", ClassName: "X"},
			expectedErr: ierr.IsMalformedObjectName,
		},
		{
			name:        "pattern_name",
			input:       &dto.RegisterResourceRequest{Name: "app:*", ClassName: "X"},
			expectedErr: ierr.IsMalformedObjectName,
		},
		{
			name: "undeclared_writable_attribute",
			input: &dto.RegisterResourceRequest{
				Name:      "app:type=Pool",
				ClassName: "Pool",
				Writable:  []string{"Size"},
			},
			expectedErr: ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			r, err := s.service.RegisterResource(s.ctx, tc.input)
			if tc.expectedErr != nil {
				s.Error(err)
				s.True(tc.expectedErr(err), "unexpected error: %v", err)
				return
			}
			s.NoError(err)
			s.NotEmpty(r.RegistrationID)
			s.False(r.RegisteredAt.IsZero())
			s.True(s.service.IsRegistered(s.ctx, r.Name))
		})
	}
}

func (s *ManagementServiceSuite) TestRegisterResource_Duplicate() {
	s.register("app:type=Cache,name=users", "LRUCache", nil)

	_, err := s.service.RegisterResource(s.ctx, &dto.RegisterResourceRequest{
		Name:      "app:name=users,type=Cache",
		ClassName: "LRUCache",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.True(ierr.IsOperation(err))
}

func (s *ManagementServiceSuite) TestRegisterResource_DefaultDomain() {
	r := s.register(":type=Pool", "Pool", nil)
	s.Equal(s.cfg.Management.DefaultDomain, r.Name.Domain())

	got, err := s.service.GetResource(s.ctx, types.MustParseObjectName(":type=Pool"))
	s.Require().NoError(err)
	s.Equal(r.RegistrationID, got.RegistrationID)
}

func (s *ManagementServiceSuite) TestGetResource_NotFound() {
	name := types.MustParseObjectName("app:type=Missing")

	_, err := s.service.GetResource(s.ctx, name)
	s.Require().Error(err)
	s.True(ierr.IsInstanceNotFound(err))
	s.True(ierr.IsOperation(err))

	var notFound *ierr.InstanceNotFoundError
	s.Require().True(ierr.As(err, &notFound))
	s.Equal("app:type=Missing", notFound.Message())

	var opErr *ierr.OperationError
	s.Require().True(ierr.As(err, &opErr))
	s.Equal("app:type=Missing", opErr.Message())
}

func (s *ManagementServiceSuite) TestUnregisterResource() {
	r := s.register("app:type=Cache", "LRUCache", nil)

	s.Require().NoError(s.service.UnregisterResource(s.ctx, r.Name))
	s.False(s.service.IsRegistered(s.ctx, r.Name))

	err := s.service.UnregisterResource(s.ctx, r.Name)
	s.True(ierr.IsInstanceNotFound(err))

	err = s.service.UnregisterResource(s.ctx, types.MustParseObjectName(DelegateName))
	s.True(ierr.IsInvalidOperation(err))
	s.True(s.service.IsRegistered(s.ctx, types.MustParseObjectName(DelegateName)))
}

func (s *ManagementServiceSuite) TestAttributes() {
	r := s.register("app:type=Cache", "LRUCache", map[string]any{
		"Size":     10,
		"Capacity": 100,
		"Owner":    "ops",
	}, "Capacity", "Owner")

	v, err := s.service.GetAttribute(s.ctx, r.Name, "Size")
	s.Require().NoError(err)
	s.Equal(10, v)

	_, err = s.service.GetAttribute(s.ctx, r.Name, "Missing")
	s.True(ierr.IsAttributeNotFound(err))
	s.False(ierr.IsInstanceNotFound(err))

	attrs, err := s.service.GetAttributes(s.ctx, r.Name, []string{"Size", "Owner", "Missing"})
	s.Require().NoError(err)
	s.Equal(map[string]any{"Size": 10, "Owner": "ops"}, attrs)

	s.Require().NoError(s.service.SetAttribute(s.ctx, &dto.SetAttributeRequest{
		Name: r.Name.String(), Attribute: "Capacity", Value: 250,
	}))
	v, err = s.service.GetAttribute(s.ctx, r.Name, "Capacity")
	s.Require().NoError(err)
	s.Equal(250, v)

	err = s.service.SetAttribute(s.ctx, &dto.SetAttributeRequest{
		Name: r.Name.String(), Attribute: "Size", Value: 1,
	})
	s.True(ierr.IsInvalidOperation(err), "read-only attribute")

	err = s.service.SetAttribute(s.ctx, &dto.SetAttributeRequest{
		Name: r.Name.String(), Attribute: "Owner", Value: 42,
	})
	s.True(ierr.IsInvalidAttributeValue(err))
	var bad *ierr.BadAttributeValueError
	s.Require().True(ierr.As(err, &bad))
	s.Equal("BadAttributeValueException: 42", bad.Error())

	err = s.service.SetAttribute(s.ctx, &dto.SetAttributeRequest{
		Name: "app:type=Missing", Attribute: "Owner", Value: "x",
	})
	s.True(ierr.IsInstanceNotFound(err))
}

func (s *ManagementServiceSuite) TestQueryNames() {
	s.register("app:type=Cache,name=users", "LRUCache", map[string]any{"Size": 150, "Owner": "billing"})
	s.register("app:type=Cache,name=orders", "LRUCache", map[string]any{"Size": 20, "Owner": "orders"})
	s.register("app:type=Cache,name=broken", "LRUCache", map[string]any{"Size": "not-a-number"})
	s.register("app:type=Pool,name=db", "Pool", map[string]any{"Active": 3})
	s.register("other:type=Cache,name=x", "LRUCache", map[string]any{"Size": 500})

	names := func(ns []types.ObjectName) []string {
		return lo.Map(ns, func(n types.ObjectName, _ int) string { return n.Canonical() })
	}

	all, err := s.service.QueryNames(s.ctx, nil, nil)
	s.Require().NoError(err)
	s.Len(all, 6, "includes the server delegate")

	pattern := types.MustParseObjectName("app:type=Cache,*")
	caches, err := s.service.QueryNames(s.ctx, &pattern, nil)
	s.Require().NoError(err)
	s.Equal([]string{
		"app:name=broken,type=Cache",
		"app:name=orders,type=Cache",
		"app:name=users,type=Cache",
	}, names(caches))

	// broken has a non-numeric Size and Pool has none; both are skipped
	big, err := s.service.QueryNames(s.ctx, nil, query.Gt(query.Attr("Size"), query.Int(100)))
	s.Require().NoError(err)
	s.Equal([]string{"app:name=users,type=Cache", "other:name=x,type=Cache"}, names(big))

	exp := query.And(query.ClassIs("LRUCache"), query.InitialSubString(query.Attr("Owner"), "bill"))
	billing, err := s.service.QueryResources(s.ctx, &pattern, exp)
	s.Require().NoError(err)
	s.Require().Len(billing, 1)
	s.Equal(150, billing[0].Attributes["Size"])

	s.Equal(6, s.service.GetResourceCount(s.ctx))
	s.Equal([]string{"app", "mgmt", "other"}, s.service.GetDomains(s.ctx))
}

func (s *ManagementServiceSuite) TestQueryNames_NonFiniteAttribute() {
	s.register("app:type=Gauge,name=cpu", "Gauge", map[string]any{"Load": math.NaN()})
	s.register("app:type=Gauge,name=mem", "Gauge", map[string]any{"Load": math.Inf(1)})
	s.register("app:type=Gauge,name=disk", "Gauge", map[string]any{"Load": 0.9})

	var names []types.ObjectName
	var err error
	s.Require().NotPanics(func() {
		names, err = s.service.QueryNames(s.ctx, nil, query.Gt(query.Attr("Load"), query.Float(0.5)))
	})
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.Equal("app:name=disk,type=Gauge", names[0].Canonical())
}

func (s *ManagementServiceSuite) TestQueryNames_Cancelled() {
	s.register("app:type=Cache", "LRUCache", map[string]any{"Size": 1})

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.service.QueryNames(ctx, nil, query.Eq(query.Attr("Size"), query.Int(1)))
	s.ErrorIs(err, context.Canceled)
}

func (s *ManagementServiceSuite) TestNotifications() {
	messages, err := s.pubsub.Subscribe(s.ctx, s.cfg.Management.NotificationTopic)
	s.Require().NoError(err)

	r := s.register("app:type=Cache", "LRUCache", nil)
	s.Require().NoError(s.service.UnregisterResource(s.ctx, r.Name))

	var received []*resource.Notification
	for len(received) < 2 {
		select {
		case msg := <-messages:
			n, err := DecodeNotification(msg)
			s.Require().NoError(err)
			msg.Ack()
			received = append(received, n)
		case <-time.After(2 * time.Second):
			s.FailNow("timed out waiting for notifications")
		}
	}

	// delivery order is not guaranteed; the sequence is
	sort.Slice(received, func(i, j int) bool { return received[i].Sequence < received[j].Sequence })

	s.Equal(resource.NotificationRegistered, received[0].Type)
	s.Equal(resource.NotificationUnregistered, received[1].Type)
	s.Equal("app:type=Cache", received[0].Name)
	s.Equal(r.RegistrationID, received[1].RegistrationID)
	s.Equal(received[0].Sequence+1, received[1].Sequence)
}
