package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/pkg/metrics"
)

func TestPrometheusRecorder_Handler(t *testing.T) {
	rec := metrics.NewPrometheusRecorder("gostore")
	ctx := context.Background()

	rec.ObserveTransition(ctx, "Pending", "Approved", "changed", 20*time.Millisecond)
	rec.ObserveTransition(ctx, "Approved", "Approved", "noop", time.Millisecond)
	rec.ObserveStockMovement(ctx, "outgoing", -1)
	rec.ObserveStockMovement(ctx, "returned", 1)

	n, err := testutil.GatherAndCount(rec.Registry(), "gostore_exchange_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gostore_exchange_transitions_total{from="Pending",outcome="changed",to="Approved"} 1`)
	assert.Contains(t, string(body), `gostore_stock_units_moved_total{kind="outgoing"} 1`)
}
