// Package staging keeps downloaded package artifacts on local disk between the feed
// download and the push to the target.
//
// Files are written through an afero.Fs so tests can run against an in-memory
// filesystem. A staged artifact is named {id}.{version}.nupkg; staging the same
// package version twice overwrites the previous file.
package staging
