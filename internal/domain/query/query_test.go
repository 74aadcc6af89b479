package query

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		positive []string
		negative []string
	}{
		{"", nil, nil},
		{"   ", nil, nil},
		{"alpha", []string{"alpha"}, nil},
		{"alpha beta", []string{"alpha", "beta"}, nil},
		{"alpha -beta", []string{"alpha"}, []string{"beta"}},
		{"-beta", nil, []string{"beta"}},
		{"female:maid  -tsundere\tlanguage:english", []string{"female:maid", "language:english"}, []string{"tsundere"}},
		{"alpha - -", []string{"alpha"}, nil},
		{"--double", nil, []string{"-double"}},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			q := Parse(tc.raw)
			if !slices.Equal(q.Positive(), tc.positive) {
				t.Errorf("Positive() = %q, want %q", q.Positive(), tc.positive)
			}
			if !slices.Equal(q.Negative(), tc.negative) {
				t.Errorf("Negative() = %q, want %q", q.Negative(), tc.negative)
			}
		})
	}
}

// Removing the base term from the positive list must not turn it into a negative.
func TestParse_NegativesIndependentOfBaseSelection(t *testing.T) {
	q := Parse("alpha -beta gamma")

	pos := q.Positive()
	base := pos[0]
	pos = pos[1:]

	if base != "alpha" {
		t.Fatalf("base = %q", base)
	}
	if !slices.Equal(pos, []string{"gamma"}) {
		t.Fatalf("remaining positives = %q", pos)
	}
	if !slices.Equal(q.Negative(), []string{"beta"}) {
		t.Fatalf("negatives = %q, want [beta]", q.Negative())
	}
	if len(q.Positive()) != 2 {
		t.Fatal("Positive() must return a copy")
	}
}

func TestIsEmpty(t *testing.T) {
	if !Parse(" ").IsEmpty() {
		t.Error("blank query should be empty")
	}
	if Parse("-x").IsEmpty() {
		t.Error("negative-only query is not empty")
	}
}
