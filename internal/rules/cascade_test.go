package rules

import (
	"strings"
	"testing"

	"github.com/mikey/llm-mail-classifier/internal/core"
	"go.uber.org/zap/zaptest"
)

func TestCascade_Classify(t *testing.T) {
	tests := []struct {
		name      string
		email     *core.Email
		wantCat   core.Category
		wantRule  string
		wantField string
		wantTerm  string
	}{
		{
			name: "blacklisted sender beats security subject",
			email: &core.Email{
				From:    "Flybuys <news@flybuys.com.au>",
				Subject: "Your login code",
			},
			wantCat:   core.CategoryPromotion,
			wantRule:  "blacklist",
			wantField: FieldSender,
			wantTerm:  "flybuys",
		},
		{
			name: "security beats transaction",
			email: &core.Email{
				From:    "Acme <billing@acme.example>",
				Subject: "Payment receipt and verification code",
			},
			wantCat:   core.CategorySecurity,
			wantRule:  "security",
			wantField: FieldSubject,
			wantTerm:  "verification code",
		},
		{
			name: "security term in sender",
			email: &core.Email{
				From:    "BigFamily Admin <admin@bigfamily.example>",
				Subject: "Hello",
			},
			wantCat:   core.CategorySecurity,
			wantRule:  "security",
			wantField: FieldSender,
			wantTerm:  "bigfamily",
		},
		{
			name: "opportunities",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "Interview for the position",
			},
			wantCat:   core.CategoryOpportunities,
			wantRule:  "opportunities",
			wantField: FieldSubject,
			wantTerm:  "position",
		},
		{
			name: "work",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "Project deadline tomorrow",
			},
			wantCat:   core.CategoryWork,
			wantRule:  "work",
			wantField: FieldSubject,
			wantTerm:  "deadline",
		},
		{
			name: "work is case insensitive",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "URGENT: Quarterly REPORT",
			},
			wantCat:   core.CategoryWork,
			wantRule:  "work",
			wantField: FieldSubject,
			wantTerm:  "urgent",
		},
		{
			name: "personal",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "Birthday party on Saturday",
			},
			wantCat:   core.CategoryPersonal,
			wantRule:  "personal",
			wantField: FieldSubject,
			wantTerm:  "party",
		},
		{
			name: "update",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "New version available",
			},
			wantCat:   core.CategoryUpdate,
			wantRule:  "update",
			wantField: FieldSubject,
			wantTerm:  "new version",
		},
		{
			name: "transaction",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "Your order has shipped",
			},
			wantCat:   core.CategoryTransaction,
			wantRule:  "transaction",
			wantField: FieldSubject,
			wantTerm:  "order",
		},
		{
			name: "promotion",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "Big deal this weekend",
			},
			wantCat:   core.CategoryPromotion,
			wantRule:  "promotion",
			wantField: FieldSubject,
			wantTerm:  "deal",
		},
		{
			name: "terms are tried before fields",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "New login",
				Body:    "security notice",
			},
			wantCat:   core.CategorySecurity,
			wantRule:  "security",
			wantField: FieldBody,
			wantTerm:  "security",
		},
		{
			name: "newsletter sender with work subject",
			email: &core.Email{
				From:    "newsletter@shop.example.com",
				Subject: "Urgent project deadline",
			},
			wantCat:   core.CategoryPromotion,
			wantRule:  "blacklist",
			wantField: FieldSender,
			wantTerm:  "newsletter@",
		},
		{
			name: "login code for an order",
			email: &core.Email{
				From:    "person@example.com",
				Subject: "Please confirm login verification code for your order",
			},
			wantCat:   core.CategorySecurity,
			wantRule:  "security",
			wantField: FieldSubject,
			wantTerm:  "verification code",
		},
		{
			name: "nothing matches",
			email: &core.Email{
				From:    "person@example.com",
				Subject: "hello",
				Body:    "just checking in",
			},
			wantCat:  core.CategoryLowPriority,
			wantRule: "default",
		},
		{
			name: "default",
			email: &core.Email{
				From:    "Bob <bob@example.com>",
				Subject: "hello",
				Body:    "hi there",
			},
			wantCat:  core.CategoryLowPriority,
			wantRule: "default",
		},
	}

	c := NewCascade(nil, zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.email)
			if got.Category != tt.wantCat {
				t.Errorf("Expected category %s, got %s", tt.wantCat, got.Category)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Expected rule %q, got %q", tt.wantRule, got.Rule)
			}
			if got.Field != tt.wantField {
				t.Errorf("Expected field %q, got %q", tt.wantField, got.Field)
			}
			if got.Term != tt.wantTerm {
				t.Errorf("Expected term %q, got %q", tt.wantTerm, got.Term)
			}
		})
	}
}

func TestCascade_BodyWindows(t *testing.T) {
	c := NewCascade(nil, zaptest.NewLogger(t))

	near := &core.Email{
		From:    "Bob <bob@example.com>",
		Subject: "hello",
		Body:    strings.Repeat(".", 100) + "meeting",
	}
	if got := c.Classify(near); got.Category != core.CategoryWork {
		t.Errorf("Expected Work for a term inside the 300 character window, got %s", got.Category)
	}

	far := &core.Email{
		From:    "Bob <bob@example.com>",
		Subject: "hello",
		Body:    strings.Repeat(".", 350) + "meeting",
	}
	if got := c.Classify(far); got.Category != core.CategoryLowPriority {
		t.Errorf("Expected LowPriority for a term beyond the 300 character window, got %s (%s)", got.Category, got.Term)
	}

	wide := &core.Email{
		From:    "Bob <bob@example.com>",
		Subject: "hello",
		Body:    strings.Repeat(".", 350) + "password",
	}
	if got := c.Classify(wide); got.Category != core.CategorySecurity {
		t.Errorf("Expected Security for a term inside the 500 character window, got %s", got.Category)
	}
}

func TestCascade_ExtraBlacklist(t *testing.T) {
	c := NewCascade([]string{"  Acme Mailer "}, zaptest.NewLogger(t))

	got := c.Classify(&core.Email{
		From:    "ACME MAILER <hi@acme.example>",
		Subject: "Project deadline",
	})
	if got.Category != core.CategoryPromotion || got.Rule != "blacklist" {
		t.Errorf("Expected blacklist Promotion, got %s via %s", got.Category, got.Rule)
	}
	if got.Term != "acme mailer" {
		t.Errorf("Expected normalized term, got %q", got.Term)
	}
}

func TestCascade_AlwaysValid(t *testing.T) {
	c := NewCascade(nil, zaptest.NewLogger(t))
	inputs := []*core.Email{
		{},
		{From: "x", Subject: "y", Body: "z"},
		{Body: strings.Repeat("ünïcödé ", 200)},
	}
	for i, email := range inputs {
		if got := c.Classify(email); !got.Category.IsValid() {
			t.Errorf("Input %d: got invalid category %q", i, got.Category)
		}
	}
}
