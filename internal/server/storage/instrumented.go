package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

// Observer captures telemetry for object-store operations.
type Observer interface {
	RecordOperation(op string, duration time.Duration, sizeBytes int, err error)
}

// Instrumented reports every call on the wrapped store to an Observer.
// Calls rejected with ErrNotConfigured are not recorded.
type Instrumented struct {
	next     ObjectStore
	observer Observer
	now      func() time.Time
}

func NewInstrumented(next ObjectStore, observer Observer) *Instrumented {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Instrumented{next: next, observer: observer, now: time.Now}
}

func (i *Instrumented) IsConfigured() bool { return i.next.IsConfigured() }

func (i *Instrumented) Put(ctx context.Context, key string, data []byte, contentType string) error {
	start := i.now()
	err := i.next.Put(ctx, key, data, contentType)
	i.record("put", start, len(data), err)
	return err
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	start := i.now()
	err := i.next.Delete(ctx, key)
	i.record("delete", start, 0, err)
	return err
}

func (i *Instrumented) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	start := i.now()
	url, err := i.next.SignedReadURL(ctx, key, ttl)
	i.record("sign", start, 0, err)
	return url, err
}

func (i *Instrumented) record(op string, start time.Time, size int, err error) {
	if errors.Is(err, common.ErrNotConfigured) {
		return
	}
	i.observer.RecordOperation(op, i.now().Sub(start), size, err)
}

// PrometheusObserver exports object-store metrics to Prometheus.
type PrometheusObserver struct {
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	uploadedBytes prometheus.Counter
}

// NewPrometheusObserver registers the storage collectors on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "todos"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "object_store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of object-store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "object_store",
			Name:      "operation_errors_total",
			Help:      "Count of failed object-store operations.",
		}, []string{"operation"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "object_store",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes successfully written to the object store.",
		}),
	}
	for _, c := range []prometheus.Collector{o.duration, o.errors, o.uploadedBytes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register storage metric: %w", err)
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordOperation(op string, duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues(op).Inc()
		return
	}
	if op == "put" {
		o.uploadedBytes.Add(float64(sizeBytes))
	}
}

type nopObserver struct{}

func (nopObserver) RecordOperation(string, time.Duration, int, error) {}
