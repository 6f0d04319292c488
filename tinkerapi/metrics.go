/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tinkerapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts the requests sent to the optimization service
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinker",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Number of requests sent to the optimization service, partitioned by status code and method.",
	}, []string{"code", "method"})

	// RequestDuration observes the latency of requests sent to the optimization service
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tinker",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the optimization service.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// MustRegister adds the client metrics to the supplied registry
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal, RequestDuration)
}

// InstrumentTransport wraps the (possibly nil) transport so requests are recorded in the client metrics
func InstrumentTransport(transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(RequestsTotal,
		promhttp.InstrumentRoundTripperDuration(RequestDuration, transport))
}
