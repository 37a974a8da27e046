// Package state serializes plugin parameter state for hosts.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/plugbridge/pkg/framework/param"
)

const magic = "PLGBRG"

// ErrInvalidFormat is returned when a state blob does not start with the
// expected header.
var ErrInvalidFormat = errors.New("invalid state format")

// Manager handles plugin state saving and loading
type Manager struct {
	version    uint32
	registry   *param.Registry
	customSave CustomSaveFunc
	customLoad CustomLoadFunc
}

// CustomSaveFunc allows plugins to save additional state beyond parameters
type CustomSaveFunc func(w io.Writer) error

// CustomLoadFunc reads what the matching CustomSaveFunc wrote.
type CustomLoadFunc func(r io.Reader) error

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		version:  1,
		registry: registry,
	}
}

// SetCustomState sets the functions for saving and loading extra state.
func (m *Manager) SetCustomState(save CustomSaveFunc, load CustomLoadFunc) {
	m.customSave = save
	m.customLoad = load
}

// Save writes a versioned blob: header, parameter count, one normalized
// float64 per parameter in index order, then optional custom data.
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, int32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.GetNormalized()); err != nil {
			return err
		}
	}

	if m.customSave == nil {
		return binary.Write(w, binary.LittleEndian, uint32(0))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(1)); err != nil {
		return err
	}
	return m.customSave(w)
}

// Load reads a blob written by Save. Parameters beyond the registry's count
// are skipped for forward compatibility; missing ones keep their value.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	if string(header) != magic {
		return ErrInvalidFormat
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version > m.version {
		return fmt.Errorf("state version %d is newer than supported version %d", version, m.version)
	}

	var paramCount int32
	if err := binary.Read(r, binary.LittleEndian, &paramCount); err != nil {
		return err
	}
	if paramCount < 0 {
		return fmt.Errorf("negative parameter count %d: %w", paramCount, ErrInvalidFormat)
	}

	n := m.registry.Count()
	for i := 0; i < int(paramCount); i++ {
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("reading parameter %d: %w", i, err)
		}
		if i < n {
			m.registry.SetNormalized(i, value)
		}
	}

	var hasCustom uint32
	if err := binary.Read(r, binary.LittleEndian, &hasCustom); err != nil {
		return err
	}
	if hasCustom == 0 {
		return nil
	}
	if m.customLoad == nil {
		return errors.New("state has custom data but no custom loader is set")
	}
	return m.customLoad(r)
}
