package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/dragstorm/internal/group"
)

// Profile maps zone names to their options.
type Profile map[string]Options

// rawGroup is the TOML shape of a group config. Pull and Put accept a
// boolean, the string "clone" (pull only), or a list of group names; they
// are resolved to tagged rules once, at load time.
type rawGroup struct {
	Name        string `toml:"name"`
	Pull        any    `toml:"pull"`
	Put         any    `toml:"put"`
	RevertClone bool   `toml:"revert_clone"`
}

// rawZone is the TOML shape of one zone's options. Pointer fields
// distinguish "absent" from zero so defaults survive partial profiles.
type rawZone struct {
	Group               any      `toml:"group"` // string name or rawGroup table
	Sort                *bool    `toml:"sort"`
	Disabled            *bool    `toml:"disabled"`
	Handle              *string  `toml:"handle"`
	Filter              *string  `toml:"filter"`
	DelayMS             *int64   `toml:"delay"`
	TouchStartThreshold *float64 `toml:"touch_start_threshold"`
	DragThreshold       *float64 `toml:"drag_threshold"`
	SwapThreshold       *float64 `toml:"swap_threshold"`
	InvertSwap          *bool    `toml:"invert_swap"`
	AnimationMS         *int64   `toml:"animation"`
	Easing              *string  `toml:"easing"`
	GhostClass          *string  `toml:"ghost_class"`
	ChosenClass         *string  `toml:"chosen_class"`
	DragClass           *string  `toml:"drag_class"`
	SelectedClass       *string  `toml:"selected_class"`
	DataIDAttr          *string  `toml:"data_id_attr"`
	MultiDrag           *bool    `toml:"multi_drag"`
}

type rawProfile struct {
	Zone map[string]rawZone `toml:"zone"`
}

// LoadFile reads a zone profile from a TOML file.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return parse(data)
}

// Load reads a zone profile from a reader.
func Load(r io.Reader) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Profile, error) {
	var raw rawProfile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	profile := make(Profile, len(raw.Zone))
	for name, rz := range raw.Zone {
		opts, err := rz.resolve()
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", name, err)
		}
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("zone %q: %w", name, err)
		}
		profile[name] = opts
	}
	return profile, nil
}

func (rz rawZone) resolve() (Options, error) {
	opts := Default()

	policy, err := resolveGroup(rz.Group)
	if err != nil {
		return opts, err
	}
	opts.Group = policy

	if rz.Sort != nil {
		opts.Sort = *rz.Sort
	}
	if rz.Disabled != nil {
		opts.Disabled = *rz.Disabled
	}
	if rz.Handle != nil {
		opts.Handle = *rz.Handle
	}
	if rz.Filter != nil {
		opts.Filter = *rz.Filter
	}
	if rz.DelayMS != nil {
		opts.Delay = time.Duration(*rz.DelayMS) * time.Millisecond
	}
	if rz.TouchStartThreshold != nil {
		opts.TouchStartThreshold = *rz.TouchStartThreshold
	}
	if rz.DragThreshold != nil {
		opts.DragThreshold = *rz.DragThreshold
	}
	if rz.SwapThreshold != nil {
		opts.SwapThreshold = *rz.SwapThreshold
	}
	if rz.InvertSwap != nil {
		opts.InvertSwap = *rz.InvertSwap
	}
	if rz.AnimationMS != nil {
		opts.Animation = time.Duration(*rz.AnimationMS) * time.Millisecond
	}
	if rz.Easing != nil {
		opts.AnimationEasing = Easing(*rz.Easing)
	}
	if rz.GhostClass != nil {
		opts.GhostClass = *rz.GhostClass
	}
	if rz.ChosenClass != nil {
		opts.ChosenClass = *rz.ChosenClass
	}
	if rz.DragClass != nil {
		opts.DragClass = *rz.DragClass
	}
	if rz.SelectedClass != nil {
		opts.SelectedClass = *rz.SelectedClass
	}
	if rz.DataIDAttr != nil {
		opts.DataIDAttr = *rz.DataIDAttr
	}
	if rz.MultiDrag != nil {
		opts.MultiDrag = *rz.MultiDrag
	}
	return opts, nil
}

func resolveGroup(v any) (group.Policy, error) {
	switch g := v.(type) {
	case nil:
		return group.Policy{}, nil
	case string:
		return group.Named(g), nil
	case map[string]any:
		policy := group.Policy{}
		if name, ok := g["name"].(string); ok {
			policy.Name = name
		}
		pull, err := ResolvePull(g["pull"])
		if err != nil {
			return policy, err
		}
		policy.Pull = pull
		put, err := ResolvePut(g["put"])
		if err != nil {
			return policy, err
		}
		policy.Put = put
		if rc, ok := g["revert_clone"].(bool); ok {
			policy.RevertClone = rc
		}
		return policy, nil
	default:
		return group.Policy{}, fmt.Errorf("invalid group value %T", v)
	}
}

// ResolvePull converts a dynamically shaped pull value (absent, bool,
// "clone", or list of names) into its tagged rule.
func ResolvePull(v any) (group.PullRule, error) {
	switch pull := v.(type) {
	case nil:
		return group.PullRule{Kind: group.PullDefault}, nil
	case bool:
		if pull {
			return group.PullRule{Kind: group.PullAlways}, nil
		}
		return group.PullRule{Kind: group.PullNever}, nil
	case string:
		if pull == "clone" {
			return group.PullRule{Kind: group.PullClone}, nil
		}
		return group.PullRule{}, fmt.Errorf("%w: %q", ErrBadPull, pull)
	case []any:
		names, err := stringList(pull)
		if err != nil {
			return group.PullRule{}, fmt.Errorf("%w: %v", ErrBadPull, err)
		}
		return group.PullRule{Kind: group.PullAllow, Allow: names}, nil
	case []string:
		return group.PullRule{Kind: group.PullAllow, Allow: pull}, nil
	default:
		return group.PullRule{}, fmt.Errorf("%w: %T", ErrBadPull, v)
	}
}

// ResolvePut converts a dynamically shaped put value (absent, bool, or list
// of names) into its tagged rule.
func ResolvePut(v any) (group.PutRule, error) {
	switch put := v.(type) {
	case nil:
		return group.PutRule{Kind: group.PutAlways}, nil
	case bool:
		if put {
			return group.PutRule{Kind: group.PutAlways}, nil
		}
		return group.PutRule{Kind: group.PutNever}, nil
	case []any:
		names, err := stringList(put)
		if err != nil {
			return group.PutRule{}, fmt.Errorf("%w: %v", ErrBadPut, err)
		}
		return group.PutRule{Kind: group.PutAllow, Allow: names}, nil
	case []string:
		return group.PutRule{Kind: group.PutAllow, Allow: put}, nil
	default:
		return group.PutRule{}, fmt.Errorf("%w: %T", ErrBadPut, v)
	}
}

func stringList(vals []any) ([]string, error) {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("non-string element %T", v)
		}
		out = append(out, s)
	}
	return out, nil
}
