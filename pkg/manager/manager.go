package manager

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/treelinehq/treeline/pkg/compare"
	"github.com/treelinehq/treeline/pkg/connection"
	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/registry"
	"github.com/treelinehq/treeline/pkg/router"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
	"github.com/treelinehq/treeline/pkg/variables"
)

// Options configures a Manager. Transport is required; everything else has
// working defaults.
type Options struct {
	// Transport is the request/response channel to the presentation service.
	Transport transport.Transport

	// PushChannel delivers update notifications. Nil means the environment
	// has no push delivery; change events are then never emitted.
	PushChannel transport.PushChannel

	// Registry resolves ruleset ids from update notifications. Defaults to
	// an empty in-memory registry.
	Registry registry.Registry

	// VariableStore optionally persists per-ruleset variable defaults that
	// are loaded into the overlay on a connection's first use.
	VariableStore registry.Store

	// Active locale and unit system, used when a request does not carry
	// its own.
	Locale     string
	UnitSystem types.UnitSystem
}

// Manager mediates between application code and the presentation service.
// It normalizes requests into the canonical transport shape, reassembles
// paged results, gates per-connection initialization, and routes push
// notifications to change listeners.
//
// Lifecycle is explicit: NewManager and Dispose. There is no process-wide
// singleton; embedders create as many managers as they need.
type Manager struct {
	transport  transport.Transport
	overlay    *variables.Overlay
	tracker    *connection.Tracker
	router     *router.UpdateRouter
	comparator *compare.Comparator
	registry   registry.Registry
	varStore   registry.Store

	mu         sync.RWMutex
	locale     string
	unitSystem types.UnitSystem
	disposed   bool

	logger zerolog.Logger
}

// NewManager creates a manager and subscribes it to the push channel when
// one is provided.
func NewManager(opts Options) (*Manager, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("manager requires a transport")
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.NewInMemory()
	}

	m := &Manager{
		transport:  opts.Transport,
		overlay:    variables.NewOverlay(),
		tracker:    connection.NewTracker(),
		router:     router.NewUpdateRouter(opts.PushChannel, reg),
		comparator: compare.NewComparator(opts.Transport),
		registry:   reg,
		varStore:   opts.VariableStore,
		locale:     opts.Locale,
		unitSystem: opts.UnitSystem,
		logger:     log.WithComponent("manager"),
	}
	m.router.Start()

	return m, nil
}

// Dispose unsubscribes from the push channel and forgets tracked
// connections. The manager must not be used afterwards.
func (m *Manager) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.mu.Unlock()

	m.router.Stop()
	m.tracker.Reset()
	m.logger.Debug().Msg("manager disposed")
}

// SetRulesetVariable caches a variable value that is merged into every
// outgoing request for the given ruleset.
func (m *Manager) SetRulesetVariable(rulesetID, id string, typ types.VariableType, value any) {
	m.overlay.Set(rulesetID, id, typ, value)
}

// RulesetVariables returns the variables cached for the given ruleset
func (m *Manager) RulesetVariables(rulesetID string) []types.RulesetVariable {
	return m.overlay.Get(rulesetID)
}

// OnHierarchyChanged registers a hierarchy-change listener
func (m *Manager) OnHierarchyChanged(fn func(router.HierarchyChangedEvent)) (remove func()) {
	return m.router.OnHierarchyChanged(fn)
}

// OnContentChanged registers a content-change listener
func (m *Manager) OnContentChanged(fn func(router.ContentChangedEvent)) (remove func()) {
	return m.router.OnContentChanged(fn)
}

// ActiveLocale returns the locale used when requests omit their own
func (m *Manager) ActiveLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locale
}

// SetActiveLocale changes the fallback locale
func (m *Manager) SetActiveLocale(locale string) {
	m.mu.Lock()
	m.locale = locale
	m.mu.Unlock()
}

// ActiveUnitSystem returns the unit system used when requests omit their own
func (m *Manager) ActiveUnitSystem() types.UnitSystem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unitSystem
}

// SetActiveUnitSystem changes the fallback unit system
func (m *Manager) SetActiveUnitSystem(us types.UnitSystem) {
	m.mu.Lock()
	m.unitSystem = us
	m.mu.Unlock()
}

// initializeConnection runs once per open connection, before its first
// query. Persisted variable defaults are loaded into the overlay so they
// ride along on every subsequent request.
func (m *Manager) initializeConnection(conn connection.Connection) {
	logger := m.logger.With().Str("connection_token", conn.Token()).Logger()
	logger.Info().Msg("initializing connection")

	if m.varStore == nil {
		return
	}
	rulesets, err := m.varStore.ListRulesets()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list persisted rulesets")
		return
	}
	for _, rs := range rulesets {
		vars, err := m.varStore.GetVariables(rs.ID)
		if err != nil {
			logger.Warn().Err(err).Str("ruleset_id", rs.ID).Msg("failed to load variable defaults")
			continue
		}
		for _, v := range vars {
			m.overlay.Set(rs.ID, v.ID, v.Type, v.Value)
		}
	}
}
