// main.go - Main entry point for the Phosphor-8 virtual machine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func boilerPlate() {
	fmt.Println("\nPhosphor-8 - a Chip-8 virtual machine with a phosphor-decay display")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/Phosphor8")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		fullscreen  bool
		useTerminal bool
		trace       bool
		cycles      int
		scale       int
		decay       float64
		phosphor    string
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")
	flagSet.BoolVar(&useTerminal, "terminal", false, "Render to the terminal instead of a window")
	flagSet.BoolVar(&trace, "trace", false, "Print each executed instruction")
	flagSet.IntVar(&cycles, "cycles", DEFAULT_CYCLES_PER_FRAME, "CPU cycles per rendered frame")
	flagSet.IntVar(&scale, "scale", DEFAULT_SCALE, "Window scale factor")
	flagSet.Float64Var(&decay, "decay", DEFAULT_DECAY_FACTOR, "Phosphor decay factor in [0,1)")
	flagSet.StringVar(&phosphor, "phosphor", "white", "Phosphor tint: white, green or amber")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./phosphor8 [-fullscreen] [-terminal] [-cycles N] [-decay F] [-scale N] [-phosphor white|green|amber] [-trace] romfile")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	fgColor := uint32(PHOSPHOR_WHITE)
	switch phosphor {
	case "white":
	case "green":
		fgColor = PHOSPHOR_GREEN
	case "amber":
		fgColor = PHOSPHOR_AMBER
	default:
		fmt.Printf("Error: unknown phosphor tint %q\n", phosphor)
		os.Exit(1)
	}

	machine := NewMachine()
	machine.Trace = trace

	// ROM bytes are kept so a hard reset can reload the same program.
	romData, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading ROM: %v\n", err)
		os.Exit(1)
	}
	if err := machine.LoadROM(romData); err != nil {
		fmt.Printf("Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	machine.Display.SetDecayFactor(decay)

	backend := VIDEO_BACKEND_EBITEN
	if useTerminal {
		backend = VIDEO_BACKEND_TERMINAL
	}
	videoChip, err := NewVideoChip(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}
	videoChip.Configure(scale, fullscreen)
	videoChip.SetColors(fgColor, SCREEN_BLACK)

	beeper := NewBeeper(machine.Timers, SAMPLE_RATE)
	otoPlayer, err := NewOtoPlayer(SAMPLE_RATE)
	if err != nil {
		fmt.Printf("Failed to initialize sound: %v\n", err)
		os.Exit(1)
	}
	otoPlayer.SetupPlayer(beeper)

	scheduler := NewScheduler(machine, videoChip)
	if err := scheduler.SetCyclesPerFrame(cycles); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	output := videoChip.Output()
	if kc, ok := output.(KeypadCapable); ok {
		kc.AttachKeypad(machine.Keypad)
	}
	if cc, ok := output.(ControlCapable); ok {
		cc.SetResetHandler(func() {
			if err := scheduler.ResetMachine(romData); err != nil {
				fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
			}
		})
		cc.SetPauseHandler(func() {
			scheduler.SetPaused(!scheduler.Paused())
		})
		cc.SetStepHandler(scheduler.StepInstruction)
		cc.SetQuitHandler(scheduler.Stop)
		cc.SetStatusProvider(scheduler.StatusLine)
	}

	if err := videoChip.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	beeper.Start()
	otoPlayer.Start()

	fmt.Printf("Starting Chip-8 machine with ROM: %s\n", filename)
	go scheduler.Run()

	<-scheduler.Done()

	otoPlayer.Close()
	beeper.Stop()
	videoChip.Stop()
}
