// Package metrics provides Prometheus instrumentation for pullstream components.
//
// Buffers, tees and sources accept a *Registry in their Config. A nil
// *Registry is valid everywhere and records nothing, so instrumentation is
// opt-in per component.
//
// # Quick Start
//
//	registry := metrics.NewRegistry(prometheus.DefaultRegisterer)
//
//	buf := buffer.NewWithConfig[Event](buffer.Config{
//		Name:    "events",
//		Metrics: registry,
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":9090", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation, and Config to change the
// namespace or add constant labels:
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",
//		Labels:    prometheus.Labels{"version": "1.0"},
//	}
//	registry := config.Build() // nil when Enabled is false
//
// # Available Metrics
//
// ## Buffer Metrics (label: buffer)
//
//   - pullstream_buffer_emitted_total: Values accepted by Emit
//   - pullstream_buffer_pulled_total: Values delivered to pulls
//   - pullstream_buffer_rejected_total: Emit or End calls after End (extra label: op)
//   - pullstream_buffer_ended_total: Buffers that reached the ended state
//   - pullstream_buffer_depth: Values buffered and not yet pulled
//   - pullstream_buffer_waiters: Pulls suspended waiting for a value
//   - pullstream_buffer_pull_wait_seconds: Time suspended pulls waited
//
// Clones of a buffer report under their own name, "<name>-clone-<n>".
//
// ## Tee Metrics (label: tee)
//
//   - pullstream_tee_rounds_total: Pulls of the underlying sequence
//   - pullstream_tee_joined_total: Pulls that joined a round already in flight
//
// ## Source Metrics (label: source)
//
//   - pullstream_source_items_total: Values produced by timer and Pub/Sub sources
//   - pullstream_source_errors_total: Source failures
//
// # Performance
//
// Label values are curried once per component, so recording a value is a
// single atomic update. No background goroutines are started.
package metrics
