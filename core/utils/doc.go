// Package utils provides small helpers shared by the feed and target clients.
// It currently covers conversion between tick timestamps used on the wire and time.Time.
package utils
