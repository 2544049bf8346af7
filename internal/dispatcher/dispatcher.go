package dispatcher

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arlenmoss/herald/internal/chat"
	"github.com/arlenmoss/herald/internal/command"
	"github.com/arlenmoss/herald/internal/host"
)

// Renderer forwards handler return values to senders.
type Renderer interface {
	Send(sender host.Sender, value any)
}

// Dispatcher routes inbound command requests to registered handlers. It
// implements host.Executor and is bound into the host command table for
// every root token it successfully registers.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	matcher  *Matcher
	table    host.CommandTable
	renderer Renderer
	logger   *slog.Logger

	config  Config
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a dispatcher bound to a host command table.
func New(table host.CommandTable, config Config) (*Dispatcher, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	d := &Dispatcher{
		registry: NewRegistry(),
		table:    table,
		renderer: chat.NewRenderer(),
		logger:   slog.Default(),
		config:   config,
	}
	d.matcher = NewMatcher(d.registry)

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d, nil
}

// NewWithDefaults creates a dispatcher with default configuration.
func NewWithDefaults(table host.CommandTable) (*Dispatcher, error) {
	return New(table, DefaultConfig())
}

// SetLogger replaces the dispatcher's logger.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger
}

// SetRenderer replaces the renderer used to forward handler results.
func (d *Dispatcher) SetRenderer(r Renderer) {
	if r == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer = r
}

// RegisterPreHook appends a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(h PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, h)
}

// RegisterPostHook appends a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(h PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, h)
}

// Registry returns the descriptor registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Register builds a descriptor from a handler and its metadata and adds it
// to the registry.
//
// Structurally invalid declarations fail loudly: a nil handler returns
// command.ErrInvalidHandler and a blank primary identifier returns
// command.ErrInvalidIdentifier. Environmental mismatches fail soft: an
// identifier whose root token does not resolve against the host command
// table is dropped with a warning, and a descriptor left with no resolvable
// identifiers is skipped silently so one broken registration never blocks
// the rest of a batch.
func (d *Dispatcher) Register(h command.Handler, meta command.Metadata) error {
	desc, err := command.New(h, meta)
	if err != nil {
		return err
	}

	var kept []command.Identifier
	for _, id := range desc.Identifiers() {
		raw, ok := d.table.Resolve(id.Root())
		if !ok {
			d.log().Warn("unable to register command identifier: no host command with that root",
				"identifier", id.String(),
				"root", id.Root())
			continue
		}
		raw.Bind(d)
		kept = append(kept, id)
	}

	if len(kept) == 0 {
		d.log().Debug("descriptor skipped: no identifier resolved", "cmd", meta.Cmd)
		return nil
	}

	d.registry.Add(desc.WithIdentifiers(kept))
	return nil
}

// OnCommand handles one inbound request from the host. It implements
// host.Executor.
//
// The return value tells the host whether the request was handled. Once a
// descriptor has matched, every terminal outcome reports true, including a
// handler fault; only an unmatched request returns false.
func (d *Dispatcher) OnCommand(sender host.Sender, label string, args []string) bool {
	start := time.Now()
	req := &Request{
		ID:     uuid.NewString(),
		Sender: sender,
		Label:  label,
		Args:   args,
	}

	outcome, matched, err := d.dispatch(req)

	name := label
	if matched.Descriptor != nil {
		name = matched.Identifier.String()
	}
	if d.metrics != nil {
		d.metrics.Record(name, time.Since(start), outcome)
	}
	for _, h := range d.snapshotPostHooks() {
		h.PostDispatch(req, outcome, err)
	}
	d.log().Debug("dispatch finished",
		"id", req.ID,
		"command", name,
		"outcome", outcome.String())

	return outcome.Handled()
}

// dispatch runs the match, gate, and invoke stages for one request.
func (d *Dispatcher) dispatch(req *Request) (Outcome, Match, error) {
	for _, h := range d.snapshotPreHooks() {
		if !h.PreDispatch(req) {
			return OutcomeCancelled, Match{}, nil
		}
	}

	matched, ok := d.matcher.Match(req.Label, req.Args)
	if !ok {
		return OutcomeUnmatched, Match{}, nil
	}
	desc := matched.Descriptor

	if capability := desc.Capability(); !capability.Satisfies(req.Sender) {
		d.send(req.Sender, fmt.Sprintf(d.capabilityFormat(), capability.Name()))
		return OutcomeRejected, matched, nil
	}

	for _, node := range desc.Permissions() {
		if !req.Sender.HasPermission(node) {
			d.send(req.Sender, desc.PermissionMessage())
			return OutcomeDenied, matched, nil
		}
	}

	trimmed := req.Args[matched.Consumed():]
	result, err := d.invoke(desc, req.Sender, trimmed)
	if err != nil {
		d.send(req.Sender, d.internalErrorMessage())
		d.log().Error("handler fault",
			"id", req.ID,
			"command", matched.Identifier.String(),
			"err", err)
		return OutcomeFaulted, matched, err
	}

	if result != nil {
		d.snapshotRenderer().Send(req.Sender, result)
	}
	return OutcomeCompleted, matched, nil
}

// invoke runs the handler, containing panics when configured.
func (d *Dispatcher) invoke(desc *command.Descriptor, sender host.Sender, args []string) (result any, err error) {
	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				result = nil
				err = fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, r, stack[:n])
			}
		}()
	}
	return desc.Invoke(sender, args)
}

// send decodes style codes and delivers one message to the sender.
func (d *Dispatcher) send(sender host.Sender, text string) {
	if sender == nil {
		return
	}
	sender.SendMessage(chat.Decode(text))
}

func (d *Dispatcher) capabilityFormat() string {
	if d.config.CapabilityMessageFormat != "" {
		return d.config.CapabilityMessageFormat
	}
	return DefaultCapabilityMessageFormat
}

func (d *Dispatcher) internalErrorMessage() string {
	if d.config.InternalErrorMessage != "" {
		return d.config.InternalErrorMessage
	}
	return DefaultInternalErrorMessage
}

func (d *Dispatcher) log() *slog.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}

func (d *Dispatcher) snapshotRenderer() Renderer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.renderer
}

func (d *Dispatcher) snapshotPreHooks() []PreDispatchHook {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	return hooks
}

func (d *Dispatcher) snapshotPostHooks() []PostDispatchHook {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	return hooks
}
