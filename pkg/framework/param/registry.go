package param

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrNonContiguousIndex is returned by Add when a parameter's index does not
// equal the current parameter count.
var ErrNonContiguousIndex = errors.New("parameter index is not contiguous")

// Registry owns the plugin parameters, addressed by contiguous index 0..N-1.
//
// The parameter list is published as an immutable snapshot, so lookups never
// take a lock. Add is meant for construction time and must not be called
// concurrently with itself.
type Registry struct {
	params atomic.Pointer[[]*Parameter]
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make([]*Parameter, 0)
	r.params.Store(&empty)
	return r
}

// Add registers parameters in index order.
func (r *Registry) Add(params ...*Parameter) error {
	cur := *r.params.Load()
	next := make([]*Parameter, len(cur), len(cur)+len(params))
	copy(next, cur)

	for _, p := range params {
		if p == nil {
			return fmt.Errorf("registering parameter %d: nil parameter", len(next))
		}
		if p.Index != len(next) {
			return fmt.Errorf("registering %q at index %d, expected %d: %w", p.Name, p.Index, len(next), ErrNonContiguousIndex)
		}
		next = append(next, p)
	}

	r.params.Store(&next)
	return nil
}

// GetParam returns the parameter at idx. An out-of-range index is a caller
// bug and panics.
func (r *Registry) GetParam(idx int) *Parameter {
	params := *r.params.Load()
	if idx < 0 || idx >= len(params) {
		panic(fmt.Sprintf("param: index %d out of range [0,%d)", idx, len(params)))
	}
	return params[idx]
}

// SetNormalized clamps v to [0,1] and stores it on parameter idx.
func (r *Registry) SetNormalized(idx int, v float64) {
	r.GetParam(idx).SetNormalized(v)
}

// GetNormalized returns the normalized value of parameter idx.
func (r *Registry) GetNormalized(idx int) float64 {
	return r.GetParam(idx).GetNormalized()
}

// Value returns the value of parameter idx in engine units.
func (r *Registry) Value(idx int) float64 {
	return r.GetParam(idx).Value()
}

// DisplayString returns the cached display string of parameter idx.
func (r *Registry) DisplayString(idx int) string {
	return r.GetParam(idx).DisplayString()
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	return len(*r.params.Load())
}

// All returns all parameters in index order. The slice must not be modified.
func (r *Registry) All() []*Parameter {
	return *r.params.Load()
}

// ResetToDefaults restores every parameter to its default value.
func (r *Registry) ResetToDefaults() {
	for _, p := range r.All() {
		p.Reset()
	}
}
