package dto

import (
	"strconv"
	"time"

	"github.com/flexprice/mgmt/internal/domain/resource"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/query"
	"github.com/flexprice/mgmt/internal/types"
	"github.com/flexprice/mgmt/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RegisterResourceRequest represents the request payload for registering a resource
type RegisterResourceRequest struct {
	Name        string         `json:"name" validate:"required" example:"app:type=Cache,name=users"`
	ClassName   string         `json:"class_name" validate:"required" example:"LRUCache"`
	Description string         `json:"description,omitempty"`
	Attributes  map[string]any `json:"attributes"`
	Writable    []string       `json:"writable,omitempty"`
}

func (r *RegisterResourceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	missing := lo.Filter(r.Writable, func(attr string, _ int) bool {
		_, ok := r.Attributes[attr]
		return !ok
	})
	if len(missing) > 0 {
		return ierr.NewError("writable attributes must be declared").
			WithHintf("Writable attributes %v are not declared in attributes", missing).
			WithReportableDetails(map[string]any{
				"writable": missing,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToResource converts the request into a domain resource named name
func (r *RegisterResourceRequest) ToResource(name types.ObjectName) *resource.Resource {
	return &resource.Resource{
		Name:        name,
		ClassName:   r.ClassName,
		Description: r.Description,
		Attributes:  lo.Assign(map[string]any{}, r.Attributes),
		Writable:    lo.Uniq(r.Writable),
	}
}

// SetAttributeRequest represents the request payload for changing an attribute
type SetAttributeRequest struct {
	Name      string `json:"name" validate:"required" example:"app:type=Cache,name=users"`
	Attribute string `json:"attribute" validate:"required" example:"Capacity"`
	Value     any    `json:"value"`
}

func (r *SetAttributeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ResourceResponse represents the resource response structure
type ResourceResponse struct {
	Name           string         `json:"name" example:"app:type=Cache,name=users"`
	ClassName      string         `json:"class_name" example:"LRUCache"`
	Description    string         `json:"description,omitempty"`
	Attributes     map[string]any `json:"attributes"`
	Writable       []string       `json:"writable,omitempty"`
	RegistrationID string         `json:"registration_id" example:"reg_01HXYZ"`
	RegisteredAt   time.Time      `json:"registered_at" example:"2024-03-20T15:04:05Z"`
}

// ToResourceResponse converts a domain resource to its response
func ToResourceResponse(r *resource.Resource) *ResourceResponse {
	return &ResourceResponse{
		Name:           r.Name.String(),
		ClassName:      r.ClassName,
		Description:    r.Description,
		Attributes:     r.Attributes,
		Writable:       r.Writable,
		RegistrationID: r.RegistrationID,
		RegisteredAt:   r.RegisteredAt,
	}
}

// ListResourcesResponse is returned by resource queries
type ListResourcesResponse struct {
	Items []*ResourceResponse `json:"items"`
	Total int                 `json:"total"`
}

// ListNamesResponse is returned by name-only queries
type ListNamesResponse struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

// AttributeResponse carries a single attribute value
type AttributeResponse struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Value     any    `json:"value"`
}

// DomainsResponse lists the domains with at least one registered resource
type DomainsResponse struct {
	Domains       []string `json:"domains"`
	DefaultDomain string   `json:"default_domain"`
	Count         int      `json:"resource_count"`
}

// ResourceFilter represents the query parameters of resource listings
type ResourceFilter struct {
	// Pattern is an object name pattern, ex "app:type=Cache,*"
	Pattern   string `form:"pattern" example:"app:type=Cache,*"`
	ClassName string `form:"class_name" example:"LRUCache"`
	Attribute string `form:"attribute" validate:"required_with=Value Like" example:"Size"`
	// Value matches attributes equal to it; numbers and booleans are compared as such
	Value string `form:"value" example:"100"`
	// Like matches string attributes against a wildcard pattern
	Like      string `form:"like" example:"bill*"`
	NamesOnly bool   `form:"names_only"`
}

func (f *ResourceFilter) Validate() error {
	return validator.ValidateRequest(f)
}

// ToPattern parses the name pattern, returning nil when none was given
func (f *ResourceFilter) ToPattern() (*types.ObjectName, error) {
	if f.Pattern == "" {
		return nil, nil
	}
	pattern, err := types.ParseObjectName(f.Pattern)
	if err != nil {
		return nil, err
	}
	return &pattern, nil
}

// ToExp builds the query expression, returning nil when nothing filters
func (f *ResourceFilter) ToExp() query.Exp {
	var exps []query.Exp
	if f.ClassName != "" {
		exps = append(exps, query.ClassIs(f.ClassName))
	}
	if f.Attribute != "" && f.Value != "" {
		exps = append(exps, query.Eq(query.Attr(f.Attribute), parseLiteral(f.Value)))
	}
	if f.Attribute != "" && f.Like != "" {
		exps = append(exps, query.Match(query.Attr(f.Attribute), f.Like))
	}
	if len(exps) == 0 {
		return nil
	}
	return lo.Reduce(exps[1:], func(acc query.Exp, e query.Exp, _ int) query.Exp {
		return query.And(acc, e)
	}, exps[0])
}

func parseLiteral(s string) query.ValueExp {
	if d, err := decimal.NewFromString(s); err == nil {
		return query.Decimal(d)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return query.Bool(b)
	}
	return query.String(s)
}
