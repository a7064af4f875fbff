package aggbag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type flowtypeSensor struct {
	flowtype uint8
	sensor   uint16
}

func TestAggBag_CompositeKey(t *testing.T) {
	ab := New()
	k1 := Key(flowtypeSensor{flowtype: 1, sensor: 0})
	k2 := Key(flowtypeSensor{flowtype: 2, sensor: 0})

	ab.Add(k1, 100)
	ab.Add(k1, 50)
	ab.Add(k2, 1)

	require.Equal(t, uint64(150), ab.Get(k1))
	require.Equal(t, uint64(1), ab.Get(k2))
	require.Equal(t, 2, ab.Len())
}
