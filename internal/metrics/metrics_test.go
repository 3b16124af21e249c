package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(201))
	assert.Equal(t, "4xx", StatusClass(400))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "none", StatusClass(0))
}

func TestCallsTotal(t *testing.T) {
	c := CallsTotal.WithLabelValues("response", "4xx")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestPush(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	MustRegister(reg)
	CallsTotal.WithLabelValues("response", "2xx").Inc()

	require.NoError(t, Push(context.Background(), srv.URL, "matcha_call", reg))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/matcha_call", path)
	assert.NotEmpty(t, body)
}

func TestPush_GatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	reg := prometheus.NewRegistry()
	MustRegister(reg)

	require.Error(t, Push(context.Background(), url, "matcha_call", reg))
}
