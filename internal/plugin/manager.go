package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager discovers and runs the plugins under one root directory. Each
// immediate subdirectory holding a plugin.json is a plugin.
type Manager struct {
	mu      sync.Mutex
	root    string
	log     zerolog.Logger
	timeout time.Duration
	hosts   map[string]*Host
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the manager's logger, inherited by its hosts.
func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithManagerCallTimeout bounds scripted callbacks for every host.
func WithManagerCallTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a manager over the plugin root directory.
func NewManager(root string, opts ...ManagerOption) *Manager {
	m := &Manager{
		root:    root,
		log:     zerolog.Nop(),
		timeout: DefaultCallTimeout,
		hosts:   make(map[string]*Host),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Discover scans the root for plugin directories and returns their
// manifests sorted by name. Directories with invalid manifests are skipped
// with a warning.
func (m *Manager) Discover() ([]*Manifest, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, fmt.Errorf("plugin: scan %s: %w", m.root, err)
	}
	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
			continue
		}
		manifest, err := LoadManifest(dir)
		if err != nil {
			m.log.Warn().Err(err).Str("dir", dir).Msg("skipping invalid plugin")
			continue
		}
		manifests = append(manifests, manifest)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, nil
}

// Load runs the named plugin's entry script and returns its host. Loading
// the same name again returns the existing host.
func (m *Manager) Load(ctx context.Context, name string) (*Host, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.hosts[name]; ok {
		return h, nil
	}

	manifests, err := m.Discover()
	if err != nil {
		return nil, err
	}
	var manifest *Manifest
	for _, cand := range manifests {
		if cand.Name == name {
			manifest = cand
			break
		}
	}
	if manifest == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}

	h, err := NewHost(manifest, WithHostLogger(m.log), WithCallTimeout(m.timeout))
	if err != nil {
		return nil, err
	}
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	m.hosts[name] = h
	m.log.Info().Str("plugin", name).Str("version", manifest.Version).Msg("plugin loaded")
	return h, nil
}

// LoadAll loads every discovered plugin, stopping at the first failure.
func (m *Manager) LoadAll(ctx context.Context) error {
	manifests, err := m.Discover()
	if err != nil {
		return err
	}
	for _, manifest := range manifests {
		if _, err := m.Load(ctx, manifest.Name); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a loaded host by name.
func (m *Manager) Get(name string) (*Host, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hosts[name]
	return h, ok
}

// List returns the loaded hosts sorted by name.
func (m *Manager) List() []*Host {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Host, 0, len(m.hosts))
	for _, h := range m.hosts {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Unload closes and forgets the named host.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hosts[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}
	h.Close()
	delete(m.hosts, name)
	return nil
}

// Close shuts every host down.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, h := range m.hosts {
		h.Close()
		delete(m.hosts, name)
	}
}
