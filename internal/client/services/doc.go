// Package services holds the client's state managers.
//
// SessionManager owns the authentication lifecycle (login, registration,
// refresh, logout, expiry checks) and publishes the current user.
// TaskStore owns the task collection and decides on every call whether to
// talk to the backend or to the local fallback collection. Guard answers
// whether a protected view may be shown.
//
// Both managers are safe for concurrent use. Published collections are
// fresh slices; subscribers must not mutate them and must not call back
// into the publishing manager's mutating methods from a callback.
package services
