package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex reg_01HQ8Z7Y3M4N5P6Q7R8S9T0V1W
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for generated identifiers

	UUID_PREFIX_REGISTRATION = "reg"
	UUID_PREFIX_NOTIFICATION = "ntf"
	UUID_PREFIX_SERVER       = "srv"
)
