// Package common contains shared constants, sentinel errors and small
// helpers used by both the artfolio client and the reference server.
package common

const (
	// CredentialKey is the storage key of the bearer token.
	CredentialKey = "token"

	// RefreshKey is the storage key of the refresh token issued with it.
	RefreshKey = "refresh"

	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
	BearerPrefix        = "Bearer "
)
