package resource

import (
	"time"

	"github.com/flexprice/mgmt/internal/types"
	"github.com/samber/lo"
)

// Resource is a managed resource registered with the server
type Resource struct {
	// Name is the object name the resource is registered under
	Name types.ObjectName `json:"name"`

	// ClassName names the implementation type of the resource, ex "CachePool"
	ClassName string `json:"class_name"`

	Description string `json:"description,omitempty"`

	// Attributes hold the current attribute values keyed by attribute name
	Attributes map[string]any `json:"attributes"`

	// Writable lists the attributes that may be changed after registration
	Writable []string `json:"writable,omitempty"`

	// RegistrationID is assigned on registration and changes on re-registration
	RegistrationID string `json:"registration_id"`

	RegisteredAt time.Time `json:"registered_at"`
}

// Attribute returns the attribute value and whether the attribute exists
func (r *Resource) Attribute(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// IsWritable reports whether the attribute may be set
func (r *Resource) IsWritable(name string) bool {
	return lo.Contains(r.Writable, name)
}

// Copy returns a copy of the resource whose attribute map and writable list
// can be changed without affecting r. Attribute values themselves are shared.
func (r *Resource) Copy() *Resource {
	if r == nil {
		return nil
	}
	c := *r
	c.Attributes = lo.Assign(map[string]any{}, r.Attributes)
	c.Writable = append([]string(nil), r.Writable...)
	return &c
}
