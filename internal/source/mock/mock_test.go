package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func TestNextProducesABeaconPerPoolEntryThenEOF(t *testing.T) {
	s := New()
	var pkt domain.Packet
	count := 0
	for {
		ok, err := s.Next(&pkt)
		require.NoError(t, err)
		if !ok {
			break
		}
		assert.Equal(t, byte(0x80), pkt.Data[0], "expected a beacon FC byte")
		count++
	}
	assert.Equal(t, len(macPool), count, "expected one synthetic beacon per pool entry")
}
