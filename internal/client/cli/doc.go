// Package cli provides the interactive artfolio command-line client.
//
// It wires configuration, the local credential database, the API client and
// the session controller behind a REPL. A background watcher keeps the
// session in step with other artfolio processes sharing the database and
// refreshes the access token before it expires.
//
// Commands are listed by "help"; the set depends on whether a session is
// established. Commands that change data go through the session's
// RequireAuth and print a login hint when no one is signed in.
package cli
