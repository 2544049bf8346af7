// Package dispatcher routes inbound command requests to registered handlers
// and coordinates execution.
//
// The dispatcher is the single front door between a host's raw command
// table and handler code. Handlers register a descriptor (identifiers,
// permissions, sender capability); inbound requests are matched against all
// registered identifiers and delivered to the best match.
//
// # Matching
//
// An identifier is a token sequence; "team create" registers the path
// {"team", "create"}. A request (label, args) matches an identifier when
// the label equals the root token case-insensitively and the leading args
// equal the remaining tokens exactly. Among all matches the longest
// identifier wins; on equal length the first-registered descriptor wins.
//
// # Dispatch
//
// When a request arrives:
//
//  1. Pre-dispatch hooks run (any may cancel the request)
//  2. The matcher selects a descriptor, or the request is reported unhandled
//  3. The sender-capability gate runs, then permission nodes in order
//  4. Tokens consumed by the matched identifier are trimmed from the args
//  5. The handler runs with panic containment
//  6. A non-nil result is forwarded to the renderer
//  7. Post-dispatch hooks observe the outcome; metrics record it
//
// Every outcome after a successful match reports handled=true to the host,
// including handler faults; only an unmatched request reports false so the
// host can apply its own unknown-command fallback.
//
// # Registration
//
// Register resolves each identifier's root token against the host command
// table and binds the dispatcher as that command's executor. Identifiers
// whose roots do not resolve are dropped with a warning; if none resolve
// the descriptor is skipped silently. Registration is safe to run
// concurrently with dispatch.
package dispatcher
