package language

import (
	"errors"
	"testing"
)

func TestResolveKnownCodes(t *testing.T) {
	tests := []struct {
		code string
		name string
	}{
		{"en", "English"},
		{"es", "Spanish"},
		{"ja", "Japanese"},
		{"zh-CN", "Chinese (Simplified)"},
		{"zh-TW", "Chinese (Traditional)"},
		{"ceb", "Cebuano"},
	}

	for _, tt := range tests {
		name, err := Resolve(tt.code)
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", tt.code, err)
			continue
		}
		if name != tt.name {
			t.Errorf("Resolve(%q) = %q, want %q", tt.code, name, tt.name)
		}
	}
}

func TestResolveUnknownCode(t *testing.T) {
	_, err := Resolve("xx")
	if err == nil {
		t.Fatal("expected error for unknown code")
	}

	var unknown *ErrUnknownCode
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *ErrUnknownCode, got %T", err)
	}
	if unknown.Code != "xx" {
		t.Errorf("error code = %q, want %q", unknown.Code, "xx")
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	if _, err := Resolve("EN"); err == nil {
		t.Error("expected error for uppercase code")
	}
}

func TestAutoDoesNotResolve(t *testing.T) {
	if _, err := Resolve(Auto); err == nil {
		t.Error("the auto sentinel must not resolve to a name")
	}
	if !IsKnown(Auto) {
		t.Error("IsKnown(Auto) = false, want true")
	}
}

func TestIsKnown(t *testing.T) {
	if !IsKnown("de") {
		t.Error("IsKnown(de) = false, want true")
	}
	if IsKnown("") {
		t.Error("IsKnown(\"\") = true, want false")
	}
}
