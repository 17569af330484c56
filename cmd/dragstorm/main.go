// Package main is the dragstorm board demo: a terminal kanban whose
// columns are sortable zones driven by mouse and keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dshills/dragstorm"
	"github.com/dshills/dragstorm/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	boardPath   string
	profilePath string
	pluginDir   string
	placement   string
	logPath     string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log := zerolog.Nop()
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Logger()
	}

	board := DefaultBoard()
	if opts.boardPath != "" {
		b, err := LoadBoard(opts.boardPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		board = b
	}

	var profile config.Profile
	if opts.profilePath != "" {
		p, err := config.LoadFile(opts.profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		profile = p
	}

	// One document cell per terminal cell. Containers get room for every
	// item on the board so columns can absorb cross-zone drops.
	capacity := float64(board.itemCount() + 1)
	doc := dragstorm.NewDocument(colWidth, capacity*float64(len(board.Columns)))
	engine, err := dragstorm.NewEngine(doc, dragstorm.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer engine.Close()

	sortables := make([]*dragstorm.Sortable, 0, len(board.Columns))
	for _, col := range board.Columns {
		colOpts := columnOptions(profile, col)
		container := dragstorm.NewElement(colWidth, capacity)
		doc.Root().AppendChild(container)
		for _, label := range col.Items {
			item := dragstorm.NewElement(colWidth, 1)
			item.SetAttr(colOpts.DataIDAttr, label)
			container.AppendChild(item)
		}
		s, err := engine.New(container, colOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: column %q: %v\n", col.Name, err)
			return 1
		}
		sortables = append(sortables, s)
	}

	if opts.pluginDir != "" {
		if err := engine.LoadPlugins(context.Background(), opts.pluginDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading plugins: %v\n", err)
			return 1
		}
		if opts.placement != "" {
			for _, s := range sortables {
				if err := s.UsePlacement(opts.placement); err != nil {
					fmt.Fprintf(os.Stderr, "Error: placement %q: %v\n", opts.placement, err)
					return 1
				}
			}
		}
	}

	if opts.profilePath != "" {
		w, err := config.WatchFile(opts.profilePath, func(p config.Profile, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("profile reload failed")
				return
			}
			for i, col := range board.Columns {
				if o, ok := lookupProfile(p, col); ok {
					if err := sortables[i].SetOptions(o); err != nil {
						log.Warn().Str("column", col.Name).Err(err).Msg("profile options rejected")
					}
				}
			}
			log.Info().Msg("profile reloaded")
		})
		if err != nil {
			log.Warn().Err(err).Msg("profile watch unavailable")
		} else {
			defer w.Close()
		}
	}

	if err := newUI(engine, board, sortables, log).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// columnOptions resolves a column's zone options from the profile, falling
// back to a shared freely-sorting group.
func columnOptions(profile config.Profile, col Column) dragstorm.Options {
	if o, ok := lookupProfile(profile, col); ok {
		return o
	}
	o := dragstorm.DefaultOptions()
	o.Group = dragstorm.Group("board")
	o.MultiDrag = true
	return o
}

func lookupProfile(profile config.Profile, col Column) (dragstorm.Options, bool) {
	if profile == nil {
		return dragstorm.Options{}, false
	}
	name := col.Profile
	if name == "" {
		name = col.Name
	}
	o, ok := profile[name]
	return o, ok
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.boardPath, "board", "", "Path to a YAML board layout")
	flag.StringVar(&opts.boardPath, "b", "", "Path to a YAML board layout (shorthand)")
	flag.StringVar(&opts.profilePath, "config", "", "Path to a TOML zone profile")
	flag.StringVar(&opts.profilePath, "c", "", "Path to a TOML zone profile (shorthand)")
	flag.StringVar(&opts.pluginDir, "plugins", "", "Directory of Lua plugins")
	flag.StringVar(&opts.placement, "placement", "", "Plugin placement strategy to install")
	flag.StringVar(&opts.logPath, "log", "", "Append logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dragstorm - terminal drag-and-drop board\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dragstorm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dragstorm                          Built-in demo board\n")
		fmt.Fprintf(os.Stderr, "  dragstorm -b board.yaml            Load a board layout\n")
		fmt.Fprintf(os.Stderr, "  dragstorm -c zones.toml            Zone options from a profile\n")
		fmt.Fprintf(os.Stderr, "  dragstorm -plugins ./plugins -placement swap\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("dragstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return opts
}
