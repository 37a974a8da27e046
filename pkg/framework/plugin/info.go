// Package plugin holds plugin identity metadata.
package plugin

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyID is returned by ValidateUID when Info.ID is empty.
var ErrEmptyID = errors.New("plugin ID must not be empty")

// uidNamespace scopes name-based UIDs so they do not collide with UUIDs
// derived from the same strings elsewhere.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/justyntemme/plugbridge"))

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx", "Instrument")
}

// UID derives a stable 16-byte class ID from the plugin ID.
func (i Info) UID() [16]byte {
	return uuid.NewSHA1(uidNamespace, []byte(strings.ToLower(i.ID)))
}

// ValidateUID checks that a UID can be derived.
func (i Info) ValidateUID() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	return nil
}
