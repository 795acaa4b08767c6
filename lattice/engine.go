package lattice

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomworks/loom/am"
	"github.com/loomworks/loom/logger"
)

// Engine owns the node repository and both canonicalization registries.
// One RWMutex guards all three as a unit: IngestSequence's multi-step
// construction depends on registry entries written earlier in the same call
// staying visible, so partial views are never exposed.
type Engine struct {
	mu sync.RWMutex

	nodes map[string]*Node
	order []string // insertion order; scan and listing order is deterministic

	atomRegistry     map[string]string // serialized value -> atom URI
	fragmentRegistry map[string]string // serialized content -> fragment URI

	authority string
	agent     string

	resolveDepthLimit int

	listenerMu   sync.Mutex
	listeners    map[int]func()
	nextListener int
	dispatching  atomic.Bool

	log *zap.SugaredLogger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithAuthority sets the identifier authority prefix. A trailing separator
// is trimmed.
func WithAuthority(authority string) Option {
	return func(e *Engine) {
		e.authority = strings.TrimSuffix(authority, "/")
	}
}

// WithAgent sets the provenance agent recorded on new nodes.
func WithAgent(agent string) Option {
	return func(e *Engine) {
		e.agent = agent
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithResolveDepthLimit bounds the string resolver's structural recursion.
// Values <= 0 keep the default.
func WithResolveDepthLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.resolveDepthLimit = limit
		}
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		nodes:             make(map[string]*Node),
		atomRegistry:      make(map[string]string),
		fragmentRegistry:  make(map[string]string),
		authority:         am.DefaultAuthority,
		resolveDepthLimit: am.DefaultResolveDepthLimit,
		listeners:         make(map[int]func()),
		log:               logger.Logger.Named("lattice"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetFederationConfig updates the authority prefix and provenance agent for
// future minted identifiers. Existing nodes are untouched. The only
// normalization is trimming a trailing separator from the authority.
func (e *Engine) SetFederationConfig(authority, agent string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.authority = strings.TrimSuffix(authority, "/")
	e.agent = agent
}

// FederationConfig returns the current authority and agent.
func (e *Engine) FederationConfig() (authority, agent string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.authority, e.agent
}

// mintURI produces a fresh opaque identifier under the configured authority.
// Format: "<authority>/<atoms|fragments>/<uuid>".
func (e *Engine) mintURI(segment string) string {
	return e.authority + "/" + segment + "/" + uuid.NewString()
}

// AllNodes returns every node record in insertion order. The returned
// records are copies; their Content slices are shared but immutable.
func (e *Engine) AllNodes() []Node {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Node, 0, len(e.order))
	for _, id := range e.order {
		if node, ok := e.nodes[id]; ok {
			out = append(out, *node)
		}
	}
	return out
}

// GetNode looks up a node record by identifier. Unknown ids are an absent
// result, never an error.
func (e *Engine) GetNode(id string) (Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	node, ok := e.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// FragmentURI returns the canonical fragment identifier for an exact
// ordered content list, if one has been materialized.
func (e *Engine) FragmentURI(content []string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id, ok := e.fragmentRegistry[serializeContent(content)]
	return id, ok
}

// Stats returns repository counts: total atoms and total fragments.
func (e *Engine) Stats() (atoms, fragments int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.atomRegistry), len(e.fragmentRegistry)
}

// DeleteNode removes a node and purges registry entries pointing to it.
// Other nodes that reference the id in their content or constituents are
// left as-is: dangling references are tolerated, not repaired. Deleting an
// absent id is a no-op; a notification fires either way.
func (e *Engine) DeleteNode(id string) {
	e.checkReentry("DeleteNode")
	e.mu.Lock()

	_, existed := e.nodes[id]
	delete(e.nodes, id)

	if existed {
		for i, ordered := range e.order {
			if ordered == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}

	for key, value := range e.atomRegistry {
		if value == id {
			delete(e.atomRegistry, key)
		}
	}
	for key, value := range e.fragmentRegistry {
		if value == id {
			delete(e.fragmentRegistry, key)
		}
	}

	e.mu.Unlock()

	if existed {
		e.log.Debugw("Node deleted", "id", id)
	}
	e.notify()
}

// Reset clears all engine state. Federation config survives.
func (e *Engine) Reset() {
	e.checkReentry("Reset")
	e.mu.Lock()
	e.nodes = make(map[string]*Node)
	e.order = nil
	e.atomRegistry = make(map[string]string)
	e.fragmentRegistry = make(map[string]string)
	e.mu.Unlock()

	e.log.Debugw("Engine reset")
	e.notify()
}

// Subscribe registers a listener invoked synchronously after every mutating
// operation. The returned function deregisters it. Listeners must not call
// mutating operations; doing so from inside a callback corrupts
// notification ordering and is flagged as an error.
func (e *Engine) Subscribe(fn func()) (unsubscribe func()) {
	e.listenerMu.Lock()
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	e.listenerMu.Unlock()

	return func() {
		e.listenerMu.Lock()
		delete(e.listeners, id)
		e.listenerMu.Unlock()
	}
}

// notify dispatches all registered listeners. Called after the mutating
// critical section has been released, so listeners observe a consistent
// repository.
func (e *Engine) notify() {
	e.listenerMu.Lock()
	fns := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.listenerMu.Unlock()

	e.dispatching.Store(true)
	defer e.dispatching.Store(false)

	for _, fn := range fns {
		fn()
	}
}

// checkReentry flags mutating calls made from inside a notification
// callback. The call proceeds anyway; the contract violation is surfaced in
// the log rather than by corrupting caller state with a panic.
func (e *Engine) checkReentry(op string) {
	if e.dispatching.Load() {
		e.log.Errorw("Mutating operation invoked from change listener",
			"op", op)
	}
}
