package admission

import (
	"path/filepath"
	"testing"

	"github.com/abdoElHodaky/matchcore/internal/region"
	"github.com/abdoElHodaky/matchcore/internal/ring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/abdoElHodaky/matchcore/internal/metrics"
)

func newTestBroker(t *testing.T) (*Broker, *ring.OrderRing) {
	t.Helper()
	dir := t.TempDir()
	reg, err := region.Open(filepath.Join(dir, "region.bin"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	orderRing := ring.NewOrderRing(reg)
	logger := common.NewEngineLogger("admission-test")
	m := metrics.NewEngine(prometheus.NewRegistry())
	return NewBroker(orderRing, logger, m), orderRing
}

func TestSubmitAssignsSequentialIDs(t *testing.T) {
	b, orderRing := newTestBroker(t)

	id1, err := b.Submit(Submission{SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit, Price: 100, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)

	id2, err := b.Submit(Submission{SymbolFP: 1, Side: ring.SideSell, Type: ring.TypeLimit, Price: 110, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)

	out, ok := orderRing.Poll()
	require.True(t, ok)
	assert.Equal(t, uint64(1), out.OrderID)
}

func TestSubmitRejectsInvalidSubmission(t *testing.T) {
	b, _ := newTestBroker(t)

	_, err := b.Submit(Submission{SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit, Price: 0, Quantity: 5})
	require.Error(t, err)

	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	assert.NotEmpty(t, rej.CorrelationID)
}

func TestSubmitRejectsWhenRingFull(t *testing.T) {
	b, _ := newTestBroker(t)

	var lastErr error
	for i := 0; i < region.NOrder+1; i++ {
		_, lastErr = b.Submit(Submission{SymbolFP: 1, Side: ring.SideBuy, Type: ring.TypeLimit, Price: 1, Quantity: 1})
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
	var rej *Rejection
	require.ErrorAs(t, lastErr, &rej)
	assert.ErrorIs(t, rej.Err, common.ErrOrderRingFull)
}
