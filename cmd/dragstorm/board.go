package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyBoard is returned for a board file with no columns.
var ErrEmptyBoard = errors.New("board has no columns")

// Board is the demo layout: named columns of item labels.
type Board struct {
	Title   string   `yaml:"title"`
	Columns []Column `yaml:"columns"`
}

// Column is one sortable list on the board. Profile, when set, selects the
// zone options by that name from the TOML profile; otherwise the column
// name is used.
type Column struct {
	Name    string   `yaml:"name"`
	Profile string   `yaml:"profile"`
	Items   []string `yaml:"items"`
}

// LoadBoard reads a board layout from a YAML file.
func LoadBoard(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board %s: %w", path, err)
	}
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing board %s: %w", path, err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("board %s: %w", path, err)
	}
	return &b, nil
}

func (b *Board) validate() error {
	if len(b.Columns) == 0 {
		return ErrEmptyBoard
	}
	seen := make(map[string]bool, len(b.Columns))
	for _, c := range b.Columns {
		if c.Name == "" {
			return errors.New("column without a name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// itemCount returns the total number of items across all columns.
func (b *Board) itemCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Items)
	}
	return n
}

// DefaultBoard is the built-in layout used when no board file is given.
func DefaultBoard() *Board {
	return &Board{
		Title: "dragstorm",
		Columns: []Column{
			{Name: "todo", Items: []string{"triage inbox", "write changelog", "fix flaky test", "review queue"}},
			{Name: "doing", Items: []string{"profile reflow", "port demo"}},
			{Name: "done", Items: []string{"cut release"}},
		},
	}
}
