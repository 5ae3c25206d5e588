// Package cli provides the interactive gophtodo terminal client.
//
// It wires configuration, local storage, the HTTP API client, the session
// manager and the task store, then runs a REPL. Views follow the web client:
// login, register and dashboard. Task commands need the dashboard, which the
// route guard only grants to an authenticated session unless guest mode is
// on. A background watcher probes the backend and shows online/offline in
// the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
