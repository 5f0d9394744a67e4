// timers.go - Delay and sound countdown timers on a fixed 60 Hz cadence

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"sync"
	"time"
)

// TimerUnit holds the two 8-bit countdown timers. Both decrement toward
// zero at 60 Hz derived from wall-clock accumulation, independent of how
// many instructions execute per frame. The sound timer's only external
// effect is the SoundActive signal read by the audio backend.
type TimerUnit struct {
	mutex    sync.Mutex
	delay    byte
	sound    byte
	lastTick time.Time
}

func NewTimerUnit() *TimerUnit {
	return &TimerUnit{lastTick: time.Now()}
}

// Tick decrements both timers by one step, floored at zero.
func (t *TimerUnit) Tick() {
	t.mutex.Lock()
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
	t.mutex.Unlock()
}

// Advance fires the ticks that wall-clock time has accrued since the last
// call. A gap beyond TIMER_RESYNC_THRESHOLD resynchronises instead of
// replaying stale ticks, so a suspended host does not fast-forward timers.
func (t *TimerUnit) Advance(now time.Time) {
	t.mutex.Lock()
	elapsed := now.Sub(t.lastTick)
	if elapsed > TIMER_RESYNC_THRESHOLD {
		t.lastTick = now
		elapsed = 0
	}
	for elapsed >= TIMER_INTERVAL {
		if t.delay > 0 {
			t.delay--
		}
		if t.sound > 0 {
			t.sound--
		}
		t.lastTick = t.lastTick.Add(TIMER_INTERVAL)
		elapsed -= TIMER_INTERVAL
	}
	t.mutex.Unlock()
}

// Resync realigns the accumulator after a pause so the frozen interval is
// not replayed on resume.
func (t *TimerUnit) Resync(now time.Time) {
	t.mutex.Lock()
	t.lastTick = now
	t.mutex.Unlock()
}

// Delay reads the delay timer (FX07).
func (t *TimerUnit) Delay() byte {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.delay
}

// SetDelay writes the delay timer (FX15).
func (t *TimerUnit) SetDelay(v byte) {
	t.mutex.Lock()
	t.delay = v
	t.mutex.Unlock()
}

// SetSound writes the sound timer (FX18). The instruction set has no way
// to read it back.
func (t *TimerUnit) SetSound(v byte) {
	t.mutex.Lock()
	t.sound = v
	t.mutex.Unlock()
}

// SoundActive is the audio collaborator's read-only tone signal.
func (t *TimerUnit) SoundActive() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.sound > 0
}
