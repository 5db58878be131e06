// Package tweakpine creates live tweak panels backed by a reactive store.
//
//	s := store.New()
//	panel, err := tweakpine.Create(s, "Scene", schema.New().
//		Add("speed", schema.Range(5, 0, 10, 1)).
//		Add("glow", schema.Color{Value: "#ff8800"}))
//	...
//	speed := panel.Values().Float("speed")
package tweakpine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/schema"
	"github.com/eminiarts/tweakpine/state"
	"github.com/eminiarts/tweakpine/store"
)

var panelCounter atomic.Uint64

// Option configures a Panel.
type Option func(*Panel)

// WithPosition anchors the panel to a corner; see config.Positions.
func WithPosition(position string) Option {
	return func(p *Panel) {
		p.position = position
	}
}

// WithID registers the panel under id instead of a generated one.
func WithID(id string) Option {
	return func(p *Panel) {
		p.id = id
	}
}

// WithOnAction subscribes fn to the panel's actions for its whole lifetime.
func WithOnAction(fn func(path string)) Option {
	return func(p *Panel) {
		p.onAction = fn
	}
}

// Panel is a registered panel together with the subscriptions it owns.
type Panel struct {
	store    *store.Store
	id       string
	name     string
	position string
	onAction func(path string)

	mu     sync.Mutex
	unsubs []func()
	closed bool
}

// Create registers cfg in s under a fresh id (tweakpine-1, tweakpine-2, ...).
func Create(s *store.Store, name string, cfg *schema.Config, opts ...Option) (*Panel, error) {
	p := &Panel{
		store:    s,
		name:     name,
		position: config.PositionTopRight,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.id == "" {
		p.id = fmt.Sprintf("tweakpine-%d", panelCounter.Add(1))
	}
	if !validPosition(p.position) {
		return nil, fmt.Errorf("unknown panel position '%s'", p.position)
	}

	if err := s.RegisterPanel(p.id, name, cfg); err != nil {
		return nil, err
	}
	if p.onAction != nil {
		if _, err := p.OnAction(p.onAction); err != nil {
			_ = s.UnregisterPanel(p.id)
			return nil, err
		}
	}
	return p, nil
}

func validPosition(position string) bool {
	for _, pos := range config.Positions {
		if pos == position {
			return true
		}
	}
	return false
}

// ID returns the panel id.
func (p *Panel) ID() string { return p.id }

// Name returns the display name.
func (p *Panel) Name() string { return p.name }

// Position returns the corner the panel is anchored to.
func (p *Panel) Position() string { return p.position }

// Store returns the store the panel is registered in.
func (p *Panel) Store() *store.Store { return p.store }

// Values returns a live reader over the panel's values.
func (p *Panel) Values() store.Resolved {
	return p.store.Resolved(p.id)
}

// OnChange calls fn with the changed values after every update.
func (p *Panel) OnChange(fn func(changed map[string]schema.Value)) (func(), error) {
	unsub, err := p.store.SubscribeChange(p.id, fn)
	if err != nil {
		return nil, err
	}
	p.track(unsub)
	return unsub, nil
}

// OnAction calls fn with the path of every triggered action.
func (p *Panel) OnAction(fn func(path string)) (func(), error) {
	unsub, err := p.store.SubscribeActions(p.id, fn)
	if err != nil {
		return nil, err
	}
	p.track(unsub)
	return unsub, nil
}

func (p *Panel) track(unsub func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubs = append(p.unsubs, unsub)
}

// Close drops the panel's subscriptions and unregisters it. Closing twice is
// a no-op.
func (p *Panel) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	return p.store.UnregisterPanel(p.id)
}

// NewStore builds a store from the tool configuration: the preset backend,
// spring pruning and active-preset restore. The returned close function
// releases the backend.
func NewStore(cfg *config.Config, opts ...store.Option) (*store.Store, func() error, error) {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	logger := logging.NewLogger("tweakpine.state")
	backend, closeFn, err := state.Open(cfg.Presets, logger)
	if err != nil {
		return nil, closeFn, err
	}
	base := []store.Option{
		store.WithBackend(backend),
		store.WithSpringPruning(cfg.PruneSprings()),
		store.WithRestoreActivePreset(cfg.Presets.RestoreActive),
	}
	return store.New(append(base, opts...)...), closeFn, nil
}
