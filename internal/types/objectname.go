package types

import (
	"encoding/json"
	"sort"
	"strings"

	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/flexprice/mgmt/internal/utils"
	"github.com/samber/lo"
)

const (
	objectNameDomainSeparator   = ":"
	objectNamePropertySeparator = ","
	objectNameKeyValueSeparator = "="
	objectNameWildcard          = "*"
)

// KeyProperty is a single key=value pair of an ObjectName
type KeyProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ObjectName identifies a managed resource. It has the form
// domain:key=value[,key=value...]. A name is a pattern when its domain holds
// '*' or '?' wildcards or its property list ends with '*'.
//
// The zero value is not a valid name.
type ObjectName struct {
	raw             string
	domain          string
	properties      []KeyProperty
	propertyPattern bool
	canonical       string
}

// ParseObjectName parses s into an ObjectName
func ParseObjectName(s string) (ObjectName, error) {
	idx := strings.Index(s, objectNameDomainSeparator)
	if idx < 0 {
		return ObjectName{}, malformed(s, "domain part must be followed by ':'")
	}

	domain, rest := s[:idx], s[idx+1:]
	if strings.ContainsAny(domain, ",=\n") {
		return ObjectName{}, malformed(s, "domain cannot contain ',', '=' or newlines")
	}
	if rest == "" {
		return ObjectName{}, malformed(s, "key properties cannot be empty")
	}

	name := ObjectName{raw: s, domain: domain}
	seen := make(map[string]struct{})
	parts := strings.Split(rest, objectNamePropertySeparator)
	for i, part := range parts {
		if part == objectNameWildcard {
			if i != len(parts)-1 {
				return ObjectName{}, malformed(s, "'*' must be the last key property")
			}
			name.propertyPattern = true
			continue
		}

		key, value, ok := strings.Cut(part, objectNameKeyValueSeparator)
		if !ok {
			return ObjectName{}, malformed(s, "key property must be of the form key=value")
		}
		if key == "" || value == "" {
			return ObjectName{}, malformed(s, "key and value cannot be empty")
		}
		if strings.ContainsAny(key, ":=*?\n") {
			return ObjectName{}, malformed(s, "invalid character in key")
		}
		if strings.ContainsAny(value, ":=*?\n") {
			return ObjectName{}, malformed(s, "invalid character in value")
		}
		if _, dup := seen[key]; dup {
			return ObjectName{}, malformed(s, "duplicate key "+key)
		}
		seen[key] = struct{}{}
		name.properties = append(name.properties, KeyProperty{Key: key, Value: value})
	}

	name.canonical = name.buildCanonical()
	return name, nil
}

// MustParseObjectName is like ParseObjectName but panics on error
func MustParseObjectName(s string) ObjectName {
	name, err := ParseObjectName(s)
	if err != nil {
		panic(err)
	}
	return name
}

// NewObjectName builds a non-pattern name from a domain and key properties
func NewObjectName(domain string, properties map[string]string) (ObjectName, error) {
	keys := lo.Keys(properties)
	sort.Strings(keys)
	pairs := lo.Map(keys, func(k string, _ int) string {
		return k + objectNameKeyValueSeparator + properties[k]
	})
	return ParseObjectName(domain + objectNameDomainSeparator + strings.Join(pairs, objectNamePropertySeparator))
}

func malformed(s, reason string) error {
	return ierr.NewError("malformed object name: "+reason).
		WithHintf("Invalid object name %q: %s", s, reason).
		WithReportableDetails(map[string]any{
			"name": s,
		}).
		Mark(ierr.ErrMalformedObjectName)
}

func (n ObjectName) buildCanonical() string {
	props := append([]KeyProperty(nil), n.properties...)
	sort.Slice(props, func(i, j int) bool { return props[i].Key < props[j].Key })

	var b strings.Builder
	b.WriteString(n.domain)
	b.WriteString(objectNameDomainSeparator)
	for i, p := range props {
		if i > 0 {
			b.WriteString(objectNamePropertySeparator)
		}
		b.WriteString(p.Key)
		b.WriteString(objectNameKeyValueSeparator)
		b.WriteString(p.Value)
	}
	if n.propertyPattern {
		if len(props) > 0 {
			b.WriteString(objectNamePropertySeparator)
		}
		b.WriteString(objectNameWildcard)
	}
	return b.String()
}

// String returns the name as it was given
func (n ObjectName) String() string {
	return n.raw
}

// Canonical returns the name with key properties sorted by key
func (n ObjectName) Canonical() string {
	return n.canonical
}

// IsZero reports whether n is the zero ObjectName
func (n ObjectName) IsZero() bool {
	return n.raw == ""
}

func (n ObjectName) Domain() string {
	return n.domain
}

// KeyProperty returns the value for key and whether it is present
func (n ObjectName) KeyProperty(key string) (string, bool) {
	p, ok := lo.Find(n.properties, func(p KeyProperty) bool { return p.Key == key })
	return p.Value, ok
}

// KeyProperties returns a copy of the key properties as a map
func (n ObjectName) KeyProperties() map[string]string {
	return lo.SliceToMap(n.properties, func(p KeyProperty) (string, string) {
		return p.Key, p.Value
	})
}

// Equal compares names by their canonical form
func (n ObjectName) Equal(other ObjectName) bool {
	return n.canonical == other.canonical
}

func (n ObjectName) IsDomainPattern() bool {
	return strings.ContainsAny(n.domain, "*?")
}

func (n ObjectName) IsPropertyPattern() bool {
	return n.propertyPattern
}

func (n ObjectName) IsPattern() bool {
	return n.IsDomainPattern() || n.IsPropertyPattern()
}

// WithDomain returns a copy of n moved into domain. Used to resolve names
// given without a domain into the default domain.
func (n ObjectName) WithDomain(domain string) (ObjectName, error) {
	if n.IsZero() {
		return ObjectName{}, ierr.NewError("object name is required").
			WithHint("Object name is required").
			Mark(ierr.ErrValidation)
	}
	idx := strings.Index(n.raw, objectNameDomainSeparator)
	return ParseObjectName(domain + n.raw[idx:])
}

// Apply reports whether the pattern n matches name. Patterns never match
// other patterns; a non-pattern only matches an equal name.
func (n ObjectName) Apply(name ObjectName) bool {
	if name.IsZero() || name.IsPattern() {
		return false
	}
	if !n.IsPattern() {
		return n.Equal(name)
	}
	if !utils.WildcardMatch(n.domain, name.domain) {
		return false
	}

	props := name.KeyProperties()
	for _, p := range n.properties {
		if v, ok := props[p.Key]; !ok || v != p.Value {
			return false
		}
	}
	return n.propertyPattern || len(n.properties) == len(name.properties)
}

func (n ObjectName) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

func (n *ObjectName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseObjectName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
