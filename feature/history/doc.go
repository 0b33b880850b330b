// Package history keeps an audit log of finished sync passes in MySQL.
//
// Every pass, successful or not, becomes one sync_runs row through the poller's
// completion hook. The table is never consulted when deciding what to upload:
// the deployment server's own inventory is the only sync state.
package history
