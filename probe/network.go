package probe

// Network is one of the fixed network ids a sensor's deciders classify
// addresses/interfaces into. The numbering is fixed by the wire format and
// must never be renumbered.
type Network uint8

const (
	NETWORK_NULL     Network = 0
	NETWORK_EXTERNAL Network = 1
	NETWORK_INTERNAL Network = 2

	// NUM_NETWORKS is the number of networks a sensor's decider array holds.
	NUM_NETWORKS = 3
)

func (n Network) String() string {
	switch n {
	case NETWORK_NULL:
		return "null"
	case NETWORK_EXTERNAL:
		return "external"
	case NETWORK_INTERNAL:
		return "internal"
	default:
		return "invalid"
	}
}
