package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTerminalNotify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewTerminal(&buf)

	n.Notify("Buy trade placed!", Success)
	if !strings.Contains(buf.String(), "Buy trade placed!") {
		t.Fatalf("output %q missing message", buf.String())
	}
}

func TestCueStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cue      Cue
		expected string
	}{
		{CueBuySell, "buy-sell"},
		{CueProfit, "profit"},
		{CueLoss, "loss"},
		{CueInsufficient, "insufficient"},
		{CuePriceChange, "price-change"},
		{Cue(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cue.String(); got != tt.expected {
			t.Errorf("Cue(%d).String() = %q, expected %q", tt.cue, got, tt.expected)
		}
	}
}

func TestLogSoundLogsCue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewLogSound(log).Play(CueProfit)
	if !strings.Contains(buf.String(), "profit") {
		t.Fatalf("log output %q missing cue name", buf.String())
	}
}
