// Package chat renders handler return values and style-coded text to
// senders.
//
// Registered metadata and handler results may carry '&'-prefixed style
// codes ("&cAccess denied"). Decode translates them to the canonical
// section-sign form; Styler turns section-sign codes into ANSI escape
// sequences for terminal-backed senders, degrading through a termenv
// profile; Strip removes them for plain sinks.
package chat
