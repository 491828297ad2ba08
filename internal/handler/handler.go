// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds requests through the validation package, calls the
// appropriate service and writes the response shape each
// (resource, operation) pair has always answered with, on success
// and on storage failure alike.
package handler
