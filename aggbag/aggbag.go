// Package aggbag specifies, at interface level, the aggregate-bag-of-bags
// type underlying rwaggbag: a Bag keyed by a composed field tuple (e.g.
// flowtype + sensor) rather than a single scalar. The key composition DSL
// used by the real tool's "--key-fields" / "--value-fields" flags is a
// Non-goal here; AggBag only gives the AggBagRef header entry something
// concrete to describe.
package aggbag

import "github.com/flowsilk/flowpack/bag"

// Key is an opaque, comparable composite key (e.g. a struct of
// classify.Flowtype and probe.SensorID) used to index an AggBag.
type Key any

// AggBag is a Bag keyed by composite Key values.
type AggBag = bag.Bag[Key]

// New returns an empty AggBag.
func New() *AggBag {
	return bag.New[Key]()
}
