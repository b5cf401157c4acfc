// Package metrics provides observability hooks for edgebuilder builds.
//
// It implements the Null Object pattern: components receive a Recorder
// through dependency injection and default to NoopRecorder, whose methods
// inline to nothing. The Prometheus implementation is activated by injecting
// NewPrometheusRecorder where a scrape surface exists (e.g. a CI wrapper);
// the one-shot CLI never registers one itself.
package metrics
