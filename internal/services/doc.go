// Package services implements clients for the video backend's JSON API.
//
// # Client
//
// [Client] is shared by every service. Each request carries an X-Request-ID, the session's bearer token
// when one is available (via [oauth2.TokenSource]), and passes through an optional [rate.Limiter].
//
// # Services
//
//   - [AuthService] : signup, email verification, login, password reset and change
//   - [UserService] : admin account management
//   - [VideoService] : published feed, featured videos, admin catalog, stats, media URLs
//   - [WatchlistService] : favorites
//
// List methods have the signature of a pager query, so they plug directly into a pager controller.
//
// # Error Handling
//
//   - [shared.ErrNetwork] : the request never produced a response
//   - [shared.APIError] : non-2xx response, carrying the status and the backend's message; matches [shared.ErrServer]
//   - [shared.ErrInvalidInput] : rejected locally before sending (email, password length, full name, role)
package services
