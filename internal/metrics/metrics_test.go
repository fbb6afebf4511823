package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRasters struct{ builds, hits int64 }

func (s stubRasters) Builds() int64 { return s.builds }

func (s stubRasters) Hits() int64 { return s.hits }

func TestFramesAndSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFrame(2 * time.Millisecond)
	m.ObserveFrame(3 * time.Millisecond)
	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsTotal))
}

func TestRasterCountersAndEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.WatchRasters(stubRasters{builds: 4, hits: 12})

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "sneakbit_raster_builds_total 4")
	assert.Contains(t, body, "sneakbit_raster_hits_total 12")
	assert.Contains(t, body, "sneakbit_frame_duration_seconds_bucket")
}
