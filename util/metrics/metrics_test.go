package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersMove(t *testing.T) {
	before := testutil.ToFloat64(checkouts.WithLabelValues("ok"))
	ObserveCheckout("ok")
	require.Equal(t, before+1, testutil.ToFloat64(checkouts.WithLabelValues("ok")))

	before = testutil.ToFloat64(returns.WithLabelValues("already_returned"))
	ObserveReturn("already_returned")
	require.Equal(t, before+1, testutil.ToFloat64(returns.WithLabelValues("already_returned")))

	fees := testutil.ToFloat64(lateFees)
	AddLateFee(2.5)
	AddLateFee(0)
	AddLateFee(-1)
	require.InDelta(t, fees+2.5, testutil.ToFloat64(lateFees), 1e-9)

	reqs := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/books/", "200"))
	ObserveHTTPRequest("GET", "/books/", "200", 15*time.Millisecond)
	require.Equal(t, reqs+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/books/", "200")))
}
