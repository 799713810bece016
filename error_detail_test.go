package dwjdbc

import (
	"strings"
	"testing"
)

func TestExtractErrorDetailNilBody(t *testing.T) {
	if got := extractErrorDetail(nil, "application/json"); got != "" {
		t.Errorf("extractErrorDetail(nil) = %q, want empty", got)
	}
}

func TestExtractErrorDetailJSON(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message": "dataset not found"}`, "dataset not found"},
		{`{"error": "bad query"}`, "bad query"},
		{`{"detail": "boom"}`, "boom"},
		{`{"code": 42}`, ""},
		{`{"message": ""}`, ""},
		{`not json`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		body := &closeTracker{Reader: strings.NewReader(tt.body)}
		if got := extractErrorDetail(body, "application/json"); got != tt.want {
			t.Errorf("extractErrorDetail(%q) = %q, want %q", tt.body, got, tt.want)
		}
		if !body.closed {
			t.Errorf("extractErrorDetail(%q) did not close the body", tt.body)
		}
	}
}

func TestExtractErrorDetailPlainText(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("  connection quota exceeded \n")}
	if got := extractErrorDetail(body, "text/plain"); got != "connection quota exceeded" {
		t.Errorf("extractErrorDetail() = %q", got)
	}
	if !body.closed {
		t.Error("extractErrorDetail() did not close the body")
	}
}

func TestExtractErrorDetailUnknownContentType(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("<html>oops</html>")}
	if got := extractErrorDetail(body, "text/html"); got != "" {
		t.Errorf("extractErrorDetail() = %q, want empty for unknown type", got)
	}
	if !body.closed {
		t.Error("extractErrorDetail() did not close the body")
	}
}
