// beeper.go - Square-wave tone generator driven by the sound timer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "sync/atomic"

const (
	SAMPLE_RATE    = 44100
	BEEP_FREQUENCY = 440.0
	BEEP_VOLUME    = 0.25
)

// Beeper produces the single tone the machine can make. The audio backend
// pulls samples; the tone plays for exactly as long as the sound timer is
// non-zero, which is the only audio signal the instruction set exposes.
type Beeper struct {
	timers     *TimerUnit
	sampleRate int
	phase      float32
	phaseStep  float32
	enabled    atomic.Bool
}

func NewBeeper(timers *TimerUnit, sampleRate int) *Beeper {
	return &Beeper{
		timers:     timers,
		sampleRate: sampleRate,
		phaseStep:  BEEP_FREQUENCY / float32(sampleRate),
	}
}

func (b *Beeper) Start() {
	b.enabled.Store(true)
}

func (b *Beeper) Stop() {
	b.enabled.Store(false)
}

// ReadSample returns the next mono float32 sample. Silence resets the
// phase so each beep starts on a clean edge.
func (b *Beeper) ReadSample() float32 {
	if !b.enabled.Load() || !b.timers.SoundActive() {
		b.phase = 0
		return 0
	}
	b.phase += b.phaseStep
	if b.phase >= 1.0 {
		b.phase -= 1.0
	}
	if b.phase < 0.5 {
		return BEEP_VOLUME
	}
	return -BEEP_VOLUME
}
