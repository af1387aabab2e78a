package mailparse

import (
	"reflect"
	"strings"
	"testing"
)

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParse_SinglePart(t *testing.T) {
	raw := crlf(`From: Everyday Rewards <hello@rewards.example>
To: Me <me@example.com>, other@example.com
Subject: =?UTF-8?Q?H=C3=A9llo_there?=
Content-Type: text/plain; charset=utf-8

Points are waiting for you
`)

	email, err := Parse(strings.NewReader(raw), Envelope{From: "bounce@rewards.example"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if email.From != "Everyday Rewards <hello@rewards.example>" {
		t.Errorf("Expected From with display name, got %q", email.From)
	}
	if email.Subject != "Héllo there" {
		t.Errorf("Expected decoded subject, got %q", email.Subject)
	}
	if want := []string{"me@example.com", "other@example.com"}; !reflect.DeepEqual(email.To, want) {
		t.Errorf("Expected recipients %v, got %v", want, email.To)
	}
	if strings.TrimSpace(email.Body) != "Points are waiting for you" {
		t.Errorf("Unexpected body %q", email.Body)
	}
	if len(email.Headers["Subject"]) != 1 {
		t.Errorf("Expected raw headers to be kept, got %v", email.Headers)
	}
}

func TestParse_EnvelopeFallback(t *testing.T) {
	raw := crlf(`Subject: no sender

body
`)

	email, err := Parse(strings.NewReader(raw), Envelope{
		From:       "sender@example.com",
		Recipients: []string{"rcpt@example.com"},
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.From != "sender@example.com" {
		t.Errorf("Expected envelope sender, got %q", email.From)
	}
	if !reflect.DeepEqual(email.To, []string{"rcpt@example.com"}) {
		t.Errorf("Expected envelope recipients, got %v", email.To)
	}
}

func TestParse_MultipartPrefersPlainText(t *testing.T) {
	raw := crlf(`From: shop@example.com
Subject: Receipt
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="inner"

--inner
Content-Type: text/html; charset=utf-8

<p>Thanks for your <b>order</b></p>
--inner
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: quoted-printable

Thanks for your order =E2=80=93 total $10
--inner--
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename="receipt.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`)

	email, err := Parse(strings.NewReader(raw), Envelope{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if strings.TrimSpace(email.Body) != "Thanks for your order – total $10" {
		t.Errorf("Expected the decoded text/plain part, got %q", email.Body)
	}
}

func TestParse_MultipartWithoutPlainText(t *testing.T) {
	raw := crlf(`From: shop@example.com
Subject: Sale
Content-Type: multipart/alternative; boundary="b"

--b
Content-Type: text/html

<p>Big sale</p>
--b--
`)

	email, err := Parse(strings.NewReader(raw), Envelope{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email.Body != "" {
		t.Errorf("Expected an empty body, got %q", email.Body)
	}
}

func TestParse_SinglePartHTML(t *testing.T) {
	raw := crlf(`From: shop@example.com
Content-Type: text/html

<p>Big sale</p>
`)

	email, err := Parse(strings.NewReader(raw), Envelope{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !strings.Contains(email.Body, "Big sale") {
		t.Errorf("Expected the whole body of a single part message, got %q", email.Body)
	}
}
