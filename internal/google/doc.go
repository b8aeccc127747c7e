// Package google provides OAuth2 authentication and token management for
// the Google Calendar API.
//
// Tokens are cached per account on disk, and the TokenProvider interface
// allows other token sources to be plugged in. Service account credentials
// are supported as an alternative to the interactive OAuth flow.
package google
