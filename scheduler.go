// scheduler.go - Frame loop: CPU cycles, timer cadence and decay ordering

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler drives the machine at a configurable cycle count per rendered
// frame. Within a frame the order is fixed: all CPU cycles, then the
// wall-clock timer advance, then exactly one decay step. Draws late in a
// frame must be visible to that frame's decay pass, so the order is a
// contract, not an implementation detail.
type Scheduler struct {
	machine *Machine
	video   *VideoChip

	mutex          sync.Mutex
	cyclesPerFrame int

	paused   atomic.Bool
	running  atomic.Bool
	stepOnce atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

func NewScheduler(machine *Machine, video *VideoChip) *Scheduler {
	return &Scheduler{
		machine:        machine,
		video:          video,
		cyclesPerFrame: DEFAULT_CYCLES_PER_FRAME,
		done:           make(chan struct{}),
	}
}

// SetCyclesPerFrame adjusts emulation speed at runtime. Counts below one
// are rejected; the frame loop picks the new value up on its next frame.
func (s *Scheduler) SetCyclesPerFrame(n int) error {
	if n < 1 {
		return fmt.Errorf("cycles per frame must be >= 1, got %d", n)
	}
	s.mutex.Lock()
	s.cyclesPerFrame = n
	s.mutex.Unlock()
	return nil
}

func (s *Scheduler) CyclesPerFrame() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cyclesPerFrame
}

// RunFrame executes one frame's worth of work. Any fault from the core
// stops execution mid-frame and is returned to the caller; the decay pass
// still runs so the display keeps fading while halted. Pausing freezes
// cycles and timers but never the decay pass.
func (s *Scheduler) RunFrame() error {
	var stepErr error

	paused := s.paused.Load()
	stepping := paused && s.stepOnce.CompareAndSwap(true, false)
	if !paused || stepping {
		s.mutex.Lock()
		cycles := s.cyclesPerFrame
		if stepping {
			cycles = 1
		}
		for i := 0; i < cycles; i++ {
			if stepErr = s.machine.Step(); stepErr != nil {
				break
			}
		}
		s.mutex.Unlock()
		s.machine.Timers.Advance(time.Now())
	}

	s.machine.Display.AdvanceFrame()
	return stepErr
}

// Run is the blocking frame loop. It paces frames at FRAME_RATE, pushes
// each composed frame to the video chip and halts on the first fault.
func (s *Scheduler) Run() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	ticker := time.NewTicker(time.Second / FRAME_RATE)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.RunFrame(); err != nil {
				fmt.Fprintf(os.Stderr, "%s machine halted: %v\n",
					time.Now().Format("15:04:05.000"), err)
				s.Stop()
				return
			}
			if s.video != nil {
				if err := s.video.RenderFrame(s.machine.Display); err != nil {
					fmt.Fprintf(os.Stderr, "render error: %v\n", err)
				}
			}
		}
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// SetPaused freezes CPU cycles and game timers but keeps the decay pass
// running, so lit pixels stay lit and fading ones finish fading. Timers
// resync on resume so the frozen interval is not replayed.
func (s *Scheduler) SetPaused(paused bool) {
	wasPaused := s.paused.Swap(paused)
	if wasPaused && !paused {
		s.machine.Timers.Resync(time.Now())
	}
}

func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// StepInstruction arms a single-cycle step for the next frame while
// paused. No effect when running normally.
func (s *Scheduler) StepInstruction() {
	if s.paused.Load() {
		s.stepOnce.Store(true)
	}
}

// ResetMachine reloads a ROM image under the frame-loop lock, so a hard
// reset from an input backend cannot race a frame in flight.
func (s *Scheduler) ResetMachine(rom []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.machine.LoadROM(rom)
}

// StatusLine summarises runtime state for the video backend's status bar.
func (s *Scheduler) StatusLine() string {
	state := "RUN"
	if s.paused.Load() {
		state = "PAUSE"
	}
	sound := "off"
	if s.machine.Timers.SoundActive() {
		sound = "on"
	}
	return fmt.Sprintf("%s  CPF %d  DECAY %.2f  SND %s",
		state, s.CyclesPerFrame(), s.machine.Display.DecayFactor(), sound)
}
