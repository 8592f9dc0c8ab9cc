// Package notify defines the fire-and-forget collaborator contracts the
// engine emits through. The engine never observes a return value from
// either; rendering and playback belong to the host.
package notify

// Severity selects how a notification is rendered.
type Severity int

const (
	Info Severity = iota
	Success
	Failure
	Update
)

type Notifier interface {
	Notify(msg string, sev Severity)
}

// Cue names an audio cue. Playback is external; the engine only signals.
type Cue int

const (
	CueBuySell Cue = iota
	CueProfit
	CueLoss
	CueInsufficient
	CuePriceChange
)

func (c Cue) String() string {
	switch c {
	case CueBuySell:
		return "buy-sell"
	case CueProfit:
		return "profit"
	case CueLoss:
		return "loss"
	case CueInsufficient:
		return "insufficient"
	case CuePriceChange:
		return "price-change"
	default:
		return "unknown"
	}
}

type SoundCue interface {
	Play(Cue)
}

// NopNotifier and NopSound are the engine defaults when no host is wired.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Severity) {}

type NopSound struct{}

func (NopSound) Play(Cue) {}
