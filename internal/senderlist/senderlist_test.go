package senderlist

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNew_NormalizesTerms(t *testing.T) {
	l := New([]string{" Otter.AI ", "gumtree", "", "OTTER.ai", "Gumtree"}, zaptest.NewLogger(t))

	want := []string{"otter.ai", "gumtree"}
	if !reflect.DeepEqual(l.terms, want) {
		t.Errorf("Expected terms %v, got %v", want, l.terms)
	}
}

func TestList_MatchFoldsNonASCII(t *testing.T) {
	l := New([]string{"ÉCOLE"}, zaptest.NewLogger(t))

	term, ok := l.Match("Newsletter <info@école.example>")
	if !ok || term != "école" {
		t.Errorf("Expected a case-folded match on école, got %q, %v", term, ok)
	}
}

func TestList_Match(t *testing.T) {
	l := New([]string{"everyday rewards", "no-reply@"}, zaptest.NewLogger(t))

	tests := []struct {
		from     string
		wantTerm string
		wantOK   bool
	}{
		{from: "Everyday Rewards <hello@mail.example>", wantTerm: "everyday rewards", wantOK: true},
		{from: "No-Reply@shop.example", wantTerm: "no-reply@", wantOK: true},
		{from: "Alice <alice@example.com>", wantOK: false},
		{from: "", wantOK: false},
	}

	for _, tt := range tests {
		term, ok := l.Match(tt.from)
		if ok != tt.wantOK || term != tt.wantTerm {
			t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.from, term, ok, tt.wantTerm, tt.wantOK)
		}
	}
}

func TestList_Empty(t *testing.T) {
	l := New(nil, nil)
	if _, ok := l.Match("anyone@example.com"); ok {
		t.Error("Expected an empty list to match nothing")
	}
}
