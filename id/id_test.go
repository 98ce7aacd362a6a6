package id_test

import (
	"strings"
	"testing"

	"github.com/byceps/announce/id"
)

func TestNewPrefixes(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() id.ID
		prefix id.Prefix
	}{
		{"webhook", id.NewWebhookID, id.PrefixWebhook},
		{"job", id.NewJobID, id.PrefixJob},
		{"failure", id.NewFailureID, id.PrefixFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.gen()
			if got.Prefix() != tt.prefix {
				t.Fatalf("prefix = %q, want %q", got.Prefix(), tt.prefix)
			}
			if !strings.HasPrefix(got.String(), string(tt.prefix)+"_") {
				t.Fatalf("string %q lacks prefix", got.String())
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := id.NewWebhookID()

	parsed, err := id.ParseWebhookID(orig.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.String() != orig.String() {
		t.Fatalf("got %q, want %q", parsed, orig)
	}
	if parsed.Compare(orig) != 0 {
		t.Fatal("expected equal ids to compare as 0")
	}
}

func TestParseWrongPrefix(t *testing.T) {
	if _, err := id.ParseWebhookID(id.NewJobID().String()); err == nil {
		t.Fatal("expected error for job id parsed as webhook id")
	}
	if _, err := id.Parse(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() || i.String() != "" {
		t.Fatal("zero ID should be nil with empty string")
	}

	v, err := i.Value()
	if err != nil || v != nil {
		t.Fatalf("Value() = %v, %v; want nil, nil", v, err)
	}

	var scanned id.ID
	if err := scanned.Scan(id.NewFailureID().String()); err != nil {
		t.Fatal(err)
	}
	if scanned.Prefix() != id.PrefixFailure {
		t.Fatalf("scanned prefix = %q", scanned.Prefix())
	}
}
