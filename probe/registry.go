package probe

import "fmt"

// Registry is the arena owning every configured Probe: probes and sensors
// reference each other only by id (ID/SensorID), resolved through this
// registry, so neither package needs a direct struct reference to the
// other's type.
type Registry struct {
	probes map[ID]*Probe
	byName map[string]ID
	nextID ID
}

// NewRegistry returns an empty probe registry.
func NewRegistry() *Registry {
	return &Registry{
		probes: make(map[ID]*Probe),
		byName: make(map[string]ID),
	}
}

// Add registers a new probe, assigning it the next available ID, and
// returns that ID. Called only during configuration load.
func (r *Registry) Add(name string, typ Type, quirks Quirks) (ID, error) {
	if _, exists := r.byName[name]; exists {
		return 0, fmt.Errorf("probe: %w: %q", ErrDuplicate, name)
	}
	r.nextID++
	id := r.nextID
	r.probes[id] = &Probe{ID: id, Name: name, Type: typ, Quirks: quirks}
	r.byName[name] = id
	return id, nil
}

// Get returns the probe for id, or nil if unknown.
func (r *Registry) Get(id ID) *Probe {
	return r.probes[id]
}

// ByName returns the probe registered under name, or nil if unknown.
func (r *Registry) ByName(name string) *Probe {
	id, ok := r.byName[name]
	if !ok {
		return nil
	}
	return r.probes[id]
}

// All returns every registered probe, in ascending id order.
func (r *Registry) All() []*Probe {
	out := make([]*Probe, 0, len(r.probes))
	for id := ID(1); id <= r.nextID; id++ {
		if p, ok := r.probes[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
