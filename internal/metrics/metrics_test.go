package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(RepositoryOps.WithLabelValues("lot", "create", "ok"))
	ObserveOperation("lot", "create", "ok", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RepositoryOps.WithLabelValues("lot", "create", "ok")))
}
