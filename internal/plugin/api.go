package plugin

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/arlenmoss/herald/internal/chat"
	"github.com/arlenmoss/herald/internal/host"
	plua "github.com/arlenmoss/herald/internal/plugin/lua"
)

// senderTypeName is the metatable name for sender userdata.
const senderTypeName = "herald.sender"

var senderMethods = map[string]lua.LGFunction{
	"name":           senderName,
	"send":           senderSend,
	"has_permission": senderHasPermission,
}

// registerSenderType installs the sender userdata metatable. Called once per
// state at load time, before the state is shared with the dispatcher.
func registerSenderType(L *lua.LState) {
	mt := L.NewTypeMetatable(senderTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), senderMethods))
}

// wrapSender boxes a host sender as Lua userdata.
func wrapSender(L *lua.LState, s host.Sender) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(senderTypeName))
	return ud
}

func checkSender(L *lua.LState) host.Sender {
	ud := L.CheckUserData(1)
	if s, ok := ud.Value.(host.Sender); ok {
		return s
	}
	L.ArgError(1, "sender expected")
	return nil
}

func senderName(L *lua.LState) int {
	s := checkSender(L)
	L.Push(lua.LString(s.Name()))
	return 1
}

func senderSend(L *lua.LState) int {
	s := checkSender(L)
	text := L.CheckString(2)
	s.SendMessage(chat.Decode(text))
	return 0
}

func senderHasPermission(L *lua.LState) int {
	s := checkSender(L)
	node := L.CheckString(2)
	L.Push(lua.LBool(s.HasPermission(node)))
	return 1
}

// installAPI installs the herald module into a plugin state:
//
//	herald.register{cmd=..., aliases={...}, permissions={...},
//	                permission_message=..., capability=..., handler=fn}
//	herald.log(level, message)
func (m *Manager) installAPI(p *Plugin) {
	registerSenderType(p.State.Raw())
	p.State.RegisterModule("herald", map[string]lua.LGFunction{
		"register": m.luaRegister(p),
		"log":      m.luaLog(p),
	})
}

// luaRegister implements herald.register. A definition without a function
// handler is skipped without raising; a blank cmd raises a Lua error so the
// plugin author sees the mistake immediately.
func (m *Manager) luaRegister(p *Plugin) lua.LGFunction {
	return func(L *lua.LState) int {
		def := L.CheckTable(1)

		cmd := lua.LVAsString(def.RawGetString("cmd"))
		if cmd == "" {
			L.RaiseError("herald.register: cmd is required")
			return 0
		}

		fn, ok := def.RawGetString("handler").(*lua.LFunction)
		if !ok {
			m.log().Debug("plugin command skipped: handler is not a function",
				"plugin", p.Manifest.Name,
				"cmd", cmd)
			return 0
		}

		contribution := CommandContribution{
			Cmd:               cmd,
			PermissionMessage: lua.LVAsString(def.RawGetString("permission_message")),
			Capability:        lua.LVAsString(def.RawGetString("capability")),
		}
		if t, ok := def.RawGetString("aliases").(*lua.LTable); ok {
			contribution.Aliases = plua.TableToStrings(t)
		}
		if t, ok := def.RawGetString("permissions").(*lua.LTable); ok {
			contribution.Permissions = plua.TableToStrings(t)
		}

		if err := m.registerContribution(p, contribution, fn); err != nil {
			L.RaiseError("herald.register: %v", err)
		}
		return 0
	}
}

func (m *Manager) luaLog(p *Plugin) lua.LGFunction {
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		msg := L.CheckString(2)

		logger := m.log().With("plugin", p.Manifest.Name)
		switch level {
		case "debug":
			logger.Debug(msg)
		case "warn":
			logger.Warn(msg)
		case "error":
			logger.Error(msg)
		default:
			logger.Info(msg)
		}
		return 0
	}
}

// log returns the manager logger. The logger is fixed at construction, so
// no locking is needed here even when Lua code calls back mid-load.
func (m *Manager) log() *slog.Logger {
	return m.logger
}
