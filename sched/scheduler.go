// Package sched drives the engine's periodic evaluations. One goroutine, one
// ticker: market status and the price walk are re-evaluated each tick, in
// order, run to completion. The engine's own mutex serializes these ticks
// against user-triggered actions, so state mutations are single-flight.
package sched

import (
	"context"
	"time"

	"github.com/rustyeddy/papertrade/engine"
)

// Tick summarizes one scheduler pass for the display layer.
type Tick struct {
	Now          time.Time
	Status       engine.MarketStatus
	PriceChanged bool
}

type Scheduler struct {
	eng      *engine.Engine
	interval time.Duration
	onTick   func(Tick)
}

func New(eng *engine.Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{eng: eng, interval: interval}
}

// OnTick registers a display callback invoked after each pass. Must be set
// before Run.
func (s *Scheduler) OnTick(fn func(Tick)) {
	s.onTick = fn
}

// Run evaluates immediately, then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.pass()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pass()
		}
	}
}

func (s *Scheduler) pass() {
	status := s.eng.EvaluateMarket()
	changed := s.eng.TickPrice()
	if s.onTick != nil {
		s.onTick(Tick{Now: time.Now(), Status: status, PriceChanged: changed})
	}
}
