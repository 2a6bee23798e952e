package narrow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/narrowstack/internal/logging"
)

// Kind classifies a host operation for interception.
type Kind int

const (
	// KindNarrow operations change the visible region and are recorded.
	KindNarrow Kind = iota
	// KindWiden operations expose the whole document; while interception is
	// enabled they widen one level at a time.
	KindWiden
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNarrow:
		return "narrow"
	case KindWiden:
		return "widen"
	default:
		return "unknown"
	}
}

// Operation is a host operation on a document.
type Operation func(doc Document, args ...int) error

type operation struct {
	name      string
	kind      Kind
	raw       Operation
	installed Operation
}

// Registry is the table of host operations. While enabled, every
// intercepted operation is installed in its wrapped form; while disabled
// every operation runs as registered.
type Registry struct {
	manager    *Manager
	ops        map[string]*operation
	restricted map[string]bool
	enabled    bool
	logger     *logging.Logger
}

// NewRegistry creates a disabled registry backed by m.
func NewRegistry(m *Manager) *Registry {
	return &Registry{
		manager: m,
		ops:     make(map[string]*operation),
		logger:  m.logger.WithComponent("registry"),
	}
}

// Register adds a host operation. If the registry is enabled the wrapped
// form is installed immediately.
func (r *Registry) Register(name string, kind Kind, op Operation) error {
	if op == nil {
		return fmt.Errorf("registering %s: %w", name, ErrNilOperation)
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("registering %s: %w", name, ErrDuplicateOperation)
	}
	o := &operation{name: name, kind: kind, raw: op, installed: op}
	r.ops[name] = o
	if r.enabled {
		r.install(o)
	}
	return nil
}

// Unregister removes a host operation.
func (r *Registry) Unregister(name string) bool {
	if _, ok := r.ops[name]; !ok {
		return false
	}
	delete(r.ops, name)
	return true
}

// Restrict limits interception to the named operations. Operations not
// named always run as registered. A nil or empty list intercepts every
// operation. Naming an unregistered operation returns ErrUnknownOperation
// and leaves the current restriction in place.
func (r *Registry) Restrict(names []string) error {
	var unknown []string
	for _, n := range names {
		if _, ok := r.ops[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(unknown, ", "), ErrUnknownOperation)
	}

	if len(names) == 0 {
		r.restricted = nil
	} else {
		r.restricted = make(map[string]bool, len(names))
		for _, n := range names {
			r.restricted[n] = true
		}
	}
	if r.enabled {
		for _, o := range r.ops {
			r.install(o)
		}
	}
	return nil
}

// Enable installs the wrapped form of every intercepted operation.
// Enabling an enabled registry does nothing.
func (r *Registry) Enable() {
	if r.enabled {
		return
	}
	for _, o := range r.ops {
		r.install(o)
	}
	r.enabled = true
	r.logger.Debug("interception enabled for %d operations", len(r.ops))
}

// Disable reinstalls every operation as registered. Disabling a disabled
// registry does nothing.
func (r *Registry) Disable() {
	if !r.enabled {
		return
	}
	for _, o := range r.ops {
		o.installed = o.raw
	}
	r.enabled = false
	r.logger.Debug("interception disabled")
}

// Enabled reports whether interception is installed.
func (r *Registry) Enabled() bool {
	return r.enabled
}

// Lookup returns the installed implementation of an operation.
func (r *Registry) Lookup(name string) (Operation, bool) {
	o, ok := r.ops[name]
	if !ok {
		return nil, false
	}
	return o.installed, true
}

// KindOf returns the kind an operation was registered with.
func (r *Registry) KindOf(name string) (Kind, bool) {
	o, ok := r.ops[name]
	if !ok {
		return 0, false
	}
	return o.kind, true
}

// Intercepted reports whether the wrapped form of name is installed.
func (r *Registry) Intercepted(name string) bool {
	_, ok := r.ops[name]
	return ok && r.enabled && r.intercepts(name)
}

// Invoke runs the installed implementation of name on doc.
func (r *Registry) Invoke(name string, doc Document, args ...int) error {
	o, ok := r.ops[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownOperation)
	}
	if doc == nil {
		return fmt.Errorf("%s: %w", name, ErrNilDocument)
	}
	return o.installed(doc, args...)
}

// Names returns the registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) intercepts(name string) bool {
	return r.restricted == nil || r.restricted[name]
}

func (r *Registry) install(o *operation) {
	if !r.intercepts(o.name) {
		o.installed = o.raw
		return
	}
	raw := o.raw
	switch o.kind {
	case KindWiden:
		o.installed = func(doc Document, args ...int) error {
			st, err := r.manager.State(doc)
			if err != nil {
				return err
			}
			return st.WidenWith(func() error { return raw(doc, args...) })
		}
	default:
		o.installed = func(doc Document, args ...int) error {
			st, err := r.manager.State(doc)
			if err != nil {
				return err
			}
			return st.Narrow(func() error { return raw(doc, args...) })
		}
	}
}
