// Package host defines the interfaces Herald consumes from the surrounding
// platform: the sender model, the raw top-level command table, and the
// dispatch entry point bound into that table.
//
// Herald never owns these collaborators. A host (a chat server, a game
// server, the console runner in cmd/herald) implements CommandTable and
// Sender; Herald resolves registered identifiers against the table, binds
// itself as the executor for their root tokens, and reports user-facing
// outcomes through Sender.SendMessage.
package host
