package discovery

import (
	"encoding/base64"
	"io"
	"log"
	"testing"
	"time"
)

func newTestParser() *CreateEventParser {
	p := NewCreateEventParser(log.New(io.Discard, "", 0))
	p.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	}
	return p
}

func validProgramDataLine() string {
	mint, curve, user := testKeys()
	data := encodeCreateEvent("New Token", "NEW", "https://example.com/t.json", mint, curve, user)
	return "Program data: " + base64.StdEncoding.EncodeToString(data)
}

func TestCreateEventParser_NoMarker(t *testing.T) {
	parser := newTestParser()

	logs := []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		validProgramDataLine(),
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P success",
	}

	events := parser.ParseCreateEvents(logs)
	if len(events) != 0 {
		t.Errorf("expected 0 events without instruction marker, got %d", len(events))
	}
}

func TestCreateEventParser_SelectsOnlyMarkedLines(t *testing.T) {
	parser := newTestParser()

	logs := []string{
		"Program log: Instruction: InitializeMint2",
		"Program data: vdt/007mYe5Qu6ZkInRhZSBkYXRhIGxpbmU=", // trade event, excluded
		validProgramDataLine(),
		"Program log: unrelated",
	}

	events := parser.ParseCreateEvents(logs)
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}

	if events[0].Name != "New Token" {
		t.Errorf("expected name New Token, got %q", events[0].Name)
	}
	if events[0].MintTime != "2024-06-01 12:30:45" {
		t.Errorf("expected stamped mint time, got %q", events[0].MintTime)
	}
}

func TestCreateEventParser_SkipsBadLinesAndContinues(t *testing.T) {
	parser := newTestParser()

	logs := []string{
		"Program log: Instruction: InitializeMint2",
		"Program data: !!!not-base64!!!",
		"Program data: " + base64.StdEncoding.EncodeToString([]byte("too short")),
		validProgramDataLine(),
	}

	events := parser.ParseCreateEvents(logs)
	if len(events) != 1 {
		t.Fatalf("expected bad lines skipped and 1 event parsed, got %d", len(events))
	}
}

func TestCreateEventParser_MultipleEvents(t *testing.T) {
	parser := newTestParser()

	logs := []string{
		"Program log: Instruction: InitializeMint2",
		validProgramDataLine(),
		validProgramDataLine(),
	}

	events := parser.ParseCreateEvents(logs)
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}

func TestCreateEventParser_EmptyLogs(t *testing.T) {
	parser := newTestParser()

	if events := parser.ParseCreateEvents(nil); len(events) != 0 {
		t.Errorf("expected 0 events for nil logs, got %d", len(events))
	}
}
