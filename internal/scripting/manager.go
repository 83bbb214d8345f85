package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrUnknownHook is returned by RunEffect when no global function has the hook's name.
var ErrUnknownHook = errors.New("scripting: unknown hook")

// Manager owns one sandboxed LState holding every loaded effect script and
// dispatches hook calls into it.
//
// Manager is safe for concurrent use; calls are serialized because an
// LState is single-threaded. Global variables a hook assigns are reset when
// the call returns, so hooks see the same globals in every match. Hooks must
// not keep state inside tables reachable from globals.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	logger    *zap.Logger
	host      Host // bound only while a hook runs
	// baseline holds the globals as they stood after the last load.
	baseline map[lua.LValue]lua.LValue
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager; a nil logger is replaced by a no-op logger.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{L: NewSandboxedState(), instLimit: instLimit, logger: logger}
	m.RegisterModules(m.L)
	m.snapshotGlobals()
	return m
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}

// LoadDir executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns error on the first Lua load failure.
func (m *Manager) LoadDir(scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.snapshotGlobals()
	for _, path := range luaFiles {
		err := withLimit(m.L, m.instLimit, func() error { return m.L.DoFile(path) })
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
		m.logger.Debug("scripting: loaded", zap.String("file", path))
	}
	return nil
}

// LoadString executes src in the VM.
func (m *Manager) LoadString(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.snapshotGlobals()
	if err := withLimit(m.L, m.instLimit, func() error { return m.L.DoString(src) }); err != nil {
		return fmt.Errorf("scripting: loading source: %w", err)
	}
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// MissingHooks returns the hooks in names that are not defined.
func (m *Manager) MissingHooks(names []string) []string {
	var missing []string
	for _, n := range names {
		if !m.HasHook(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// RunEffect calls the Lua global function hook with host bound to the engine
// module. Lua runtime errors and instruction-limit aborts are logged at Warn
// level and returned.
//
// Precondition: host must be non-nil.
// Postcondition: host is unbound and globals are back to their loaded values
// when RunEffect returns.
func (m *Manager) RunEffect(hook string, host Host) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownHook, hook)
	}
	m.host = host
	defer func() {
		m.host = nil
		m.restoreGlobals()
	}()

	err := withLimit(m.L, m.instLimit, func() error {
		return m.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return fmt.Errorf("scripting: hook %q: %w", hook, err)
	}
	return nil
}

func (m *Manager) snapshotGlobals() {
	m.baseline = make(map[lua.LValue]lua.LValue)
	m.L.G.Global.ForEach(func(k, v lua.LValue) {
		m.baseline[k] = v
	})
}

// restoreGlobals undoes global assignments made since the last snapshot.
// Values inside tables are not tracked.
func (m *Manager) restoreGlobals() {
	g := m.L.G.Global
	var changed []lua.LValue
	g.ForEach(func(k, v lua.LValue) {
		if base, ok := m.baseline[k]; !ok || base != v {
			changed = append(changed, k)
		}
	})
	for k := range m.baseline {
		if g.RawGet(k) == lua.LNil {
			changed = append(changed, k)
		}
	}
	for _, k := range changed {
		v, ok := m.baseline[k]
		if !ok {
			v = lua.LNil
		}
		g.RawSet(k, v)
	}
}
