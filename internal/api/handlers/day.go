package handlers

import (
	"context"
	"delivery-day-simulator/internal/ports"
	"delivery-day-simulator/internal/services"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// RunOptions override the configured fleet for one run.
type RunOptions struct {
	RunID       string
	ReturnToHub *bool
}

// DayRunner simulates a fresh day.
type DayRunner func(ctx context.Context, opts RunOptions) (*services.DayResult, error)

// DayState holds the most recent simulated day served by the API.
type DayState struct {
	Runner   DayRunner
	Recorder ports.RunRecorder // optional

	mu     sync.RWMutex
	result *services.DayResult
}

var ErrNoRun = errors.New("no simulated day yet")

func NewDayState(runner DayRunner, recorder ports.RunRecorder) *DayState {
	return &DayState{Runner: runner, Recorder: recorder}
}

// Current returns the latest finished day or ErrNoRun.
func (d *DayState) Current() (*services.DayResult, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.result == nil {
		return nil, ErrNoRun
	}
	return d.result, nil
}

// Set replaces the served day.
func (d *DayState) Set(res *services.DayResult) {
	d.mu.Lock()
	d.result = res
	d.mu.Unlock()
}

// Refresh runs a new day, records it when a recorder is configured, and
// serves it from then on. A failed run keeps the previous day.
func (d *DayState) Refresh(ctx context.Context, opts RunOptions) (*services.DayResult, error) {
	if d.Runner == nil {
		return nil, errors.New("refresh day: no runner configured")
	}

	res, err := d.Runner(ctx, opts)
	if err != nil {
		return nil, err
	}

	if d.Recorder != nil {
		snaps := res.StatusAt(res.State.Fleet.Day.End)
		if err := d.Recorder.SaveRun(ctx, res.Summary, snaps); err != nil {
			// The simulation itself succeeded; history is best effort.
			log.Error().Str("run_id", res.Summary.RunID).Err(err).Msg("record run failed")
		}
	}

	d.Set(res)
	return res, nil
}
