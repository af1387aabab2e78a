package core

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		want   Category
		wantOK bool
	}{
		{raw: "Work", want: CategoryWork, wantOK: true},
		{raw: "promotion", want: CategoryPromotion, wantOK: true},
		{raw: "  Security \n", want: CategorySecurity, wantOK: true},
		{raw: "PROMOTIONS", want: CategoryPromotion, wantOK: true},
		{raw: "updates", want: CategoryUpdate, wantOK: true},
		{raw: "Transactions", want: CategoryTransaction, wantOK: true},
		{raw: "opportunitie", want: CategoryOpportunities, wantOK: true},
		{raw: "Opportunites", want: CategoryOpportunities, wantOK: true},
		{raw: "opportunities", want: CategoryOpportunities, wantOK: true},
		{raw: "lowpriority", want: CategoryLowPriority, wantOK: true},
		{raw: "lowpriority ", want: CategoryLowPriority, wantOK: true},
		{raw: "LowPriority", want: CategoryLowPriority, wantOK: true},
		{raw: "Spam", wantOK: false},
		{raw: "Low Priority", wantOK: false},
		{raw: "", wantOK: false},
		{raw: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, c := range AllCategories {
		got, ok := Normalize(string(c))
		if !ok || got != c {
			t.Errorf("Normalize(%q) = %q, %v; want the category unchanged", c, got, ok)
		}
	}
}

func TestNormalize_IdempotentOnArbitraryInput(t *testing.T) {
	inputs := []string{
		"Promotions", "updates", "opportunitie", "lowpriority ", "WORK",
		"Spam", "Low Priority", "", "  ", "category: Work", "Ωmega",
	}

	for _, raw := range inputs {
		once, _ := Normalize(raw)
		twice, _ := Normalize(string(once))
		if twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestCategoryMetadata(t *testing.T) {
	if err := validateCategoryTable(); err != nil {
		t.Fatalf("category table invalid: %v", err)
	}

	for _, c := range AllCategories {
		if !c.IsValid() {
			t.Errorf("Expected %q to be valid", c)
		}
		if c.Label() == "" {
			t.Errorf("Expected a label for %q", c)
		}
		prefix := c.Prefix()
		if !strings.HasPrefix(prefix, "[") || !strings.HasSuffix(prefix, "] ") {
			t.Errorf("Unexpected prefix %q for %q", prefix, c)
		}
	}

	if Category("Spam").IsValid() {
		t.Error("Expected Spam to be invalid")
	}
	if CategoryLowPriority.Prefix() != "[Other] " {
		t.Errorf("Expected LowPriority prefix %q, got %q", "[Other] ", CategoryLowPriority.Prefix())
	}
}

func TestEmailFingerprint(t *testing.T) {
	a := &Email{From: "a@example.com", Subject: "hello", Body: "body"}
	b := &Email{From: "a@example.com", Subject: "hello", Body: "body", To: []string{"x@example.com"}}
	c := &Email{From: "a@example.com", Subject: "hellob", Body: "ody"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Expected recipients not to affect the fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("Expected field boundaries to affect the fingerprint")
	}
	if len(a.Fingerprint()) != 64 {
		t.Errorf("Expected a hex sha256 digest, got %q", a.Fingerprint())
	}
}
