// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. StorageError for failed gateway calls or HTTPError for routing failures)..
// to ensure the client receive consistent error payloads.
package errs
