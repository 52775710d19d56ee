package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/bluegreen/pkg/adapters/metrics/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, version string, clock func() time.Time) *Server {
	t.Helper()
	return NewServer(&Config{
		Addr:       ":0",
		AppVersion: version,
		Metrics:    prometheus.NewCollector(version),
		Clock:      clock,
	})
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRootEchoesVersion(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 30, 45, 123456789, time.UTC)

	for _, version := range []string{"blue", "green", "v1.2.3", "canary with spaces", "ünïcode"} {
		t.Run(version, func(t *testing.T) {
			s := newTestServer(t, version, func() time.Time { return fixed })

			rec := do(t, s, http.MethodGet, "/")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			var body GreetingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, version, body.Version)
			assert.Equal(t, "Hello from "+version+" version!", body.Message)
			assert.Equal(t, "2024-05-01T12:30:45.123Z", body.Timestamp)
		})
	}
}

func TestRootWireFormat(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	s := newTestServer(t, "green", func() time.Time { return fixed })

	rec := do(t, s, http.MethodGet, "/")

	assert.JSONEq(t,
		`{"message":"Hello from green version!","version":"green","timestamp":"2024-05-01T12:30:45.000Z"}`,
		rec.Body.String())
}

func TestRootTimestampIsUTC(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2024, 5, 1, 14, 0, 0, 5_000_000, berlin)
	s := newTestServer(t, "blue", func() time.Time { return local })

	var body GreetingResponse
	require.NoError(t, json.Unmarshal(do(t, s, http.MethodGet, "/").Body.Bytes(), &body))

	assert.Equal(t, "2024-05-01T12:00:00.005Z", body.Timestamp)
}

func TestRootTimestampsAreNonDecreasing(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	var prev time.Time
	for i := 0; i < 20; i++ {
		var body GreetingResponse
		require.NoError(t, json.Unmarshal(do(t, s, http.MethodGet, "/").Body.Bytes(), &body))

		ts, err := time.Parse(time.RFC3339Nano, body.Timestamp)
		require.NoError(t, err, "timestamp %q is not ISO-8601", body.Timestamp)
		assert.False(t, ts.Before(prev), "timestamp went backwards: %s < %s", ts, prev)
		prev = ts
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "green", nil)

	for i := 0; i < 3; i++ {
		rec := do(t, s, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"status":"healthy","version":"green"}`, rec.Body.String())
	}
}

func TestHealthUnaffectedByOtherTraffic(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	do(t, s, http.MethodGet, "/")
	do(t, s, http.MethodGet, "/nope")
	do(t, s, http.MethodPost, "/health")

	assert.JSONEq(t, `{"status":"healthy","version":"blue"}`, do(t, s, http.MethodGet, "/health").Body.String())
}

func TestUnknownRoutesReturnNotFound(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/nonexistent"},
		{http.MethodGet, "/health/deep"},
		{http.MethodPost, "/"},
		{http.MethodDelete, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	rec := do(t, s, http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "deploy-check-1")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "deploy-check-1", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	do(t, s, http.MethodGet, "/")
	do(t, s, http.MethodGet, "/nonexistent")

	rec := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bluegreen_http_requests_total{method="GET",route="/",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `bluegreen_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	s := NewServer(&Config{AppVersion: "blue"})

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/").Code)
}

func TestHeadRequests(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	for _, path := range []string{"/", "/health"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s, http.MethodHead, path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestHealthTrailingSlash(t *testing.T) {
	s := newTestServer(t, "green", nil)

	rec := do(t, s, http.MethodGet, "/health/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","version":"green"}`, rec.Body.String())
}

func TestRoutesAreCaseSensitive(t *testing.T) {
	s := newTestServer(t, "blue", nil)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/HEALTH").Code)
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hello from blue version!", Greeting("blue"))
	assert.Equal(t, "Hello from  version!", Greeting(""))
}
