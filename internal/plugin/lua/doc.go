// Package lua wraps gopher-lua for plugin execution.
//
// Each plugin runs in its own sandboxed State. Only the base, table, string,
// and math libraries are opened; io, os, debug, and package stay closed so a
// plugin cannot touch the file system or spawn processes. An LState is not
// goroutine-safe, so every State serializes access through a mutex.
package lua
