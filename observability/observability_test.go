package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestFieldsCarryTypedValues(t *testing.T) {
	err := errors.New("boom")
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("a", "x"), "a", "x"},
		{Int("b", 7), "b", 7},
		{Float64("c", 1.5), "c", 1.5},
		{Error("d", err), "d", err},
	}
	for _, c := range cases {
		if c.field.Key() != c.key {
			t.Fatalf("key = %q, want %q", c.field.Key(), c.key)
		}
		if c.field.Value() != c.value {
			t.Fatalf("value = %v, want %v", c.field.Value(), c.value)
		}
	}
}

func TestZerologLoggerEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))

	log.Warn("sweep failed", String("strategy", "printed"), Int("mode", 11), Error("err", errors.New("no text")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["message"] != "sweep failed" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["strategy"] != "printed" {
		t.Fatalf("strategy = %v", entry["strategy"])
	}
	if entry["mode"] != float64(11) {
		t.Fatalf("mode = %v", entry["mode"])
	}
	if entry["err"] != "no text" {
		t.Fatalf("err = %v", entry["err"])
	}
}

func TestWithAttachesContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf)).With(String("page", "2"))

	log.Info("done")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["page"] != "2" {
		t.Fatalf("page = %v", entry["page"])
	}
}
