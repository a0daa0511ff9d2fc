// Package client is the request pipeline of the artfolio client.
//
// # Overview
//
//  1. HTTPClient.Execute runs a Request: it joins the base URL with the
//     endpoint and query, encodes the body (JSON, or multipart via
//     *Multipart), attaches the bearer token from a CredentialReader, runs
//     each attempt under its own timeout and retries transient failures with
//     linear backoff (RetryPolicy, Retry).
//  2. Typed wrappers (Login, ListPhotos, AddCollectionPhoto, ...) cover the
//     gallery REST API; Client and AuthAPI are the interfaces callers
//     depend on.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite database
//     that backs credential storage.
//
// # Error Handling
//
// Failures are typed: *ValidationError (structured payload, fields kept
// verbatim), *APIError (status and message), *NetworkError and
// *TimeoutError; use errors.As. The sentinels ErrUnavailable,
// ErrUnauthorized and ErrNotFound match the relevant cases via errors.Is.
// Describe renders any of them for display.
package client
