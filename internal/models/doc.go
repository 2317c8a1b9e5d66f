// Package models defines the records exchanged with the video backend and persisted locally.
//
// Backend records:
//   - [User] : Accounts listed and managed by admins
//   - [Video] : Catalog entries listed on the home feed, favorites, and the admin console
//   - [Page] : One page of a paginated listing, generic over its item type
//   - [VideoStats] : Catalog summary for the admin console
//
// Request and response bodies ([PageRequest], [Credentials], [Signup], [UserInput], [AuthResponse], [MessageResponse]) mirror the backend's JSON.
//
// Local records:
//   - [CurrentUser] : The signed-in account, owned by the session package
//   - [CachedVideo] : A video kept in the offline cache
//
// List items implement [Identifiable] so controllers can update or remove them by identity.
package models
