// Package metrics exports Prometheus metrics for sync passes and the poller.
//
// Pass outcomes are recorded from the poller completion hook with RecordPass.
// Poller state (running flag, dropped ticks) is read on scrape through RegisterPoller.
// Handler serves /metrics on the Fiber status app.
package metrics
