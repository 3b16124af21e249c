package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matchacall_calls_total",
			Help: "Outbound call attempts by outcome and HTTP status class",
		},
		[]string{"outcome", "status_class"}, // response|error , 2xx|4xx|5xx|none
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		CallsTotal,
	)
}

// StatusClass buckets a status code as "2xx", "4xx", ...; no response is "none".
func StatusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Push sends everything gathered by g to a Pushgateway under job.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	return push.New(url, job).Gatherer(g).PushContext(ctx)
}
