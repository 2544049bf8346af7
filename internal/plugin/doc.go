// Package plugin discovers and runs Lua plugins.
//
// A plugin is a directory under the configured plugins root containing a
// plugin.json manifest and an entry Lua script (init.lua by default). The
// manager loads each plugin into its own sandboxed Lua state, runs the entry
// script, and registers the commands the plugin contributes.
//
// Commands reach the dispatcher by two routes:
//
//   - Manifest contributions: the manifest's commands array declares
//     identifiers, permissions, and a global Lua function as handler.
//   - The herald.register Lua API: the entry script calls
//     herald.register{cmd=..., handler=function(sender, args) ... end}.
//
// Handler return values cross the Lua boundary through the bridge and are
// forwarded to the sender like any Go handler result.
package plugin
