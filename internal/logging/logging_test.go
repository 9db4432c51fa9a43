package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_ErrorCarriesStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	logger.Error("store insert failed", "table", "contact_submissions")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "store insert failed" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if _, ok := rec["stacktrace"]; !ok {
		t.Error("expected stacktrace attribute on ERROR record")
	}
}

func TestNew_InfoHasNoStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected debug record to be filtered, got %q", buf.String())
	}

	logger.Info("request")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := rec["stacktrace"]; ok {
		t.Error("did not expect stacktrace on INFO record")
	}
}

func TestNew_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	logger.Info("store request",
		"apikey", "service-role-secret",
		"Authorization", "Bearer service-role-secret",
		slog.Group("store", "database_url", "postgres://user:hunter2@db/folio"),
		"table", "contact_submissions",
	)

	out := buf.String()
	for _, secret := range []string{"service-role-secret", "hunter2"} {
		if strings.Contains(out, secret) {
			t.Errorf("log line leaked %q: %s", secret, out)
		}
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["apikey"] != "[REDACTED]" {
		t.Errorf("expected apikey redacted, got %v", rec["apikey"])
	}
	if rec["table"] != "contact_submissions" {
		t.Errorf("expected non-secret attribute kept, got %v", rec["table"])
	}
	if rec["service"] != Service {
		t.Errorf("expected service %q, got %v", Service, rec["service"])
	}
}
