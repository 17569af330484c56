package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ManifestFile is the manifest's file name inside a plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin's identity and entry point.
type Manifest struct {
	// Name uniquely identifies the plugin, e.g. "swap-on-drop".
	Name string `json:"name"`

	// Version is the plugin's semver string.
	Version string `json:"version"`

	// Description is a short human-readable summary.
	Description string `json:"description"`

	// Author names the plugin's author or org.
	Author string `json:"author"`

	// Main is the entry script path relative to the plugin directory.
	// Empty defaults to init.lua.
	Main string `json:"main"`

	// Events lists the event names the plugin wants delivered. An empty
	// list delivers everything the script subscribed to.
	Events []string `json:"events"`

	// path is the plugin directory the manifest was read from.
	path string
}

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+([-+].+)?$`)

// LoadManifest reads and validates a plugin.json from the given plugin
// directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("plugin: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("plugin: parse manifest: %w", err)
	}
	m.path = dir
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin: manifest name is required")
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("plugin: manifest name %q must be lowercase alphanumeric with hyphens", m.Name)
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		return fmt.Errorf("plugin: manifest version %q is not semver", m.Version)
	}
	return nil
}

// MainPath returns the absolute path of the entry script.
func (m *Manifest) MainPath() string {
	main := m.Main
	if main == "" {
		main = "init.lua"
	}
	return filepath.Join(m.path, main)
}

// Path returns the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}
