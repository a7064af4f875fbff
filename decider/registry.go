package decider

import (
	"fmt"

	"github.com/flowsilk/flowpack/probe"
)

// Registry is the arena owning every configured Sensor, indexed by
// probe.SensorID (a type probe itself owns, so decider can reference
// probes by id without probe needing to import decider for the reverse
// link).
type Registry struct {
	sensors map[probe.SensorID]*Sensor
	byName  map[string]probe.SensorID
	nextID  probe.SensorID
}

// NewRegistry returns an empty sensor registry.
func NewRegistry() *Registry {
	return &Registry{
		sensors: make(map[probe.SensorID]*Sensor),
		byName:  make(map[string]probe.SensorID),
	}
}

var ErrDuplicate = fmt.Errorf("decider: duplicate sensor name")

// Add registers a new sensor, assigning it the next available SensorID.
func (r *Registry) Add(s *Sensor) (probe.SensorID, error) {
	if _, exists := r.byName[s.Name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicate, s.Name)
	}
	r.nextID++
	s.ID = r.nextID
	r.sensors[s.ID] = s
	r.byName[s.Name] = s.ID
	return s.ID, nil
}

// Get returns the sensor for id, or nil if unknown.
func (r *Registry) Get(id probe.SensorID) *Sensor {
	return r.sensors[id]
}

// ByName returns the sensor registered under name, or nil if unknown.
func (r *Registry) ByName(name string) *Sensor {
	id, ok := r.byName[name]
	if !ok {
		return nil
	}
	return r.sensors[id]
}

// All returns every registered sensor, in ascending id order.
func (r *Registry) All() []*Sensor {
	out := make([]*Sensor, 0, len(r.sensors))
	for id := probe.SensorID(1); id <= r.nextID; id++ {
		if s, ok := r.sensors[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
