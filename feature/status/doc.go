// Package status exposes the sync poller over HTTP.
//
// Routes:
//
//   - GET /status: poller state and the last pass report.
//   - POST /sync: start a pass now (202), or 409 when one is running.
//   - GET /plan: dry-run decisions against the live feed and inventory.
//   - GET /runs?limit=n: recent passes from the run history (404 when disabled).
package status
