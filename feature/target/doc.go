// Package target implements the deployment targets packages are published to.
//
// Two kinds are available:
//
//   - octopus: the built-in package repository of an Octopus Deploy server,
//     reached over its REST API with an API key.
//   - bucket: an S3-compatible bucket (AWS S3 or MinIO) accessed through core/storage.
//
// Both satisfy reconcile.Target. Inventory listings return every stored version of a
// package id with exact id matching; uploads read the staged artifact from an afero.Fs.
package target
