package group

import (
	"errors"
	"testing"
)

func TestPolicy_CanPullTo(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		target string
		want   bool
	}{
		{"default same name", Policy{Name: "g"}, "g", true},
		{"default other name", Policy{Name: "g"}, "h", false},
		{"always", Policy{Name: "g", Pull: PullRule{Kind: PullAlways}}, "h", true},
		{"never", Policy{Name: "g", Pull: PullRule{Kind: PullNever}}, "g", false},
		{"clone", Policy{Name: "g", Pull: PullRule{Kind: PullClone}}, "h", true},
		{"allow listed", Policy{Name: "g", Pull: PullRule{Kind: PullAllow, Allow: []string{"h", "i"}}}, "h", true},
		{"allow unlisted", Policy{Name: "g", Pull: PullRule{Kind: PullAllow, Allow: []string{"h"}}}, "j", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.CanPullTo(tt.target); got != tt.want {
				t.Errorf("CanPullTo(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestPolicy_CanPutFrom(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		source string
		want   bool
	}{
		{"always", Policy{Name: "g"}, "h", true},
		{"never", Policy{Name: "g", Put: PutRule{Kind: PutNever}}, "h", false},
		{"allow listed", Policy{Name: "g", Put: PutRule{Kind: PutAllow, Allow: []string{"h"}}}, "h", true},
		{"allow unlisted", Policy{Name: "g", Put: PutRule{Kind: PutAllow, Allow: []string{"h"}}}, "i", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.CanPutFrom(tt.source); got != tt.want {
				t.Errorf("CanPutFrom(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name   string
		source Policy
		target Policy
		want   bool
	}{
		{
			"same name default rules",
			Named("shared"), Named("shared"),
			true,
		},
		{
			// Put-never cannot block the same-name fast path.
			"same name put never",
			Named("g"), Policy{Name: "g", Put: PutRule{Kind: PutNever}},
			true,
		},
		{
			// The deliberate asymmetry: default pull never crosses names
			// even when the target accepts anything.
			"default pull other name",
			Named("g1"), Named("g2"),
			false,
		},
		{
			"pull always into open put",
			Policy{Name: "g1", Pull: PullRule{Kind: PullAlways}}, Named("g2"),
			true,
		},
		{
			"pull always into put never",
			Policy{Name: "g1", Pull: PullRule{Kind: PullAlways}},
			Policy{Name: "g2", Put: PutRule{Kind: PutNever}},
			false,
		},
		{
			"pull clone into open put",
			Policy{Name: "g1", Pull: PullRule{Kind: PullClone}}, Named("g2"),
			true,
		},
		{
			"pull allowlist hit with put allowlist hit",
			Policy{Name: "g1", Pull: PullRule{Kind: PullAllow, Allow: []string{"g2"}}},
			Policy{Name: "g2", Put: PutRule{Kind: PutAllow, Allow: []string{"g1"}}},
			true,
		},
		{
			"pull allowlist hit with put allowlist miss",
			Policy{Name: "g1", Pull: PullRule{Kind: PullAllow, Allow: []string{"g2"}}},
			Policy{Name: "g2", Put: PutRule{Kind: PutAllow, Allow: []string{"g3"}}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.source, tt.target); got != tt.want {
				t.Errorf("Compatible = %v, want %v", got, tt.want)
			}
		})
	}
}

// Compatibility must decompose into pull and put for distinct names, and be
// unconditional for identical names.
func TestCompatible_Symmetry(t *testing.T) {
	pulls := []PullRule{
		{Kind: PullDefault},
		{Kind: PullAlways},
		{Kind: PullNever},
		{Kind: PullClone},
		{Kind: PullAllow, Allow: []string{"b"}},
		{Kind: PullAllow, Allow: []string{"c"}},
	}
	puts := []PutRule{
		{Kind: PutAlways},
		{Kind: PutNever},
		{Kind: PutAllow, Allow: []string{"a"}},
		{Kind: PutAllow, Allow: []string{"c"}},
	}
	for _, sp := range pulls {
		for _, tp := range puts {
			a := Policy{Name: "a", Pull: sp}
			b := Policy{Name: "b", Put: tp}
			want := a.CanPullTo(b.Name) && b.CanPutFrom(a.Name)
			if got := Compatible(a, b); got != want {
				t.Errorf("Compatible(%+v, %+v) = %v, want %v", a, b, got, want)
			}
			b.Name = "a"
			if !Compatible(a, b) {
				t.Errorf("Compatible must hold for identical names (%+v, %+v)", a, b)
			}
		}
	}
}

func TestPolicy_PullModeTo(t *testing.T) {
	src := Policy{Name: "g1", Pull: PullRule{Kind: PullClone}}
	mode, err := src.PullModeTo(Named("g2"))
	if err != nil {
		t.Fatalf("PullModeTo failed: %v", err)
	}
	if mode != Clone {
		t.Errorf("mode = %v, want clone", mode)
	}

	mover := Policy{Name: "g1", Pull: PullRule{Kind: PullAlways}}
	mode, err = mover.PullModeTo(Named("g2"))
	if err != nil {
		t.Fatalf("PullModeTo failed: %v", err)
	}
	if mode != Move {
		t.Errorf("mode = %v, want move", mode)
	}

	_, err = Named("g1").PullModeTo(Named("g2"))
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected ErrIncompatible, got %v", err)
	}
}

func TestPolicy_CanPull(t *testing.T) {
	if !Named("g").CanPull() {
		t.Error("default pull must allow leaving")
	}
	if (Policy{Pull: PullRule{Kind: PullNever}}).CanPull() {
		t.Error("pull never must not allow leaving")
	}
}
