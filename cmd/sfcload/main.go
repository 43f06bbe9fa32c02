// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/ezrec/sfcload/config"
	"github.com/ezrec/sfcload/emulator"
	"github.com/ezrec/sfcload/internal"
	"github.com/ezrec/sfcload/translate"
)

func main() {
	var script string
	var rom string
	var image string
	var sram string
	var output string
	var defines bool
	var fault float64
	var seed uint64
	var tui bool
	var verbose bool

	flag.StringVar(&script, "c", "", "Starlark layout configuration")
	flag.StringVar(&rom, "r", "", "Resident ROM image, default is a stub main loop")
	flag.StringVar(&image, "i", "", "Image to send to the cartridge")
	flag.StringVar(&sram, "s", "", "Initial SRAM contents")
	flag.StringVar(&output, "o", "", "SRAM dump output")
	flag.BoolVar(&defines, "d", false, "Print the layout defines, do not execute")
	flag.Float64Var(&fault, "f", 0, "Probability of corrupting each frame sent")
	flag.Uint64Var(&seed, "seed", 1, "Corruption random seed")
	flag.BoolVar(&tui, "t", false, "Show the console screen while transferring")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := config.Default()
	if len(script) != 0 {
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		cfg, err = config.Load(inf, script)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	code := emulator.StubROM(cfg.Entry)
	if len(rom) != 0 {
		var err error
		code, err = os.ReadFile(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	emu, err := emulator.NewEmulator(cfg, code)
	if err != nil {
		log.Fatal(err)
	}
	emu.SetVerbose(verbose)

	if defines {
		for name, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v = %v\n", name, value)
		}
		return
	}

	if len(sram) != 0 {
		inf, err := os.Open(sram)
		if err != nil {
			log.Fatalf("%v: %v", sram, err)
		}
		err = emu.Cart.Load(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", sram, err)
		}
	}

	if fault > 0 {
		rng := rand.New(rand.NewPCG(seed, seed))
		emu.Fault = func(block int, attempt int, frame []byte) {
			if rng.Float64() < fault {
				frame[rng.IntN(len(frame))] ^= 1 << rng.IntN(8)
			}
		}
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if tui {
			err = runScreen(ctx, emu, inf)
		} else {
			err = emu.Transfer(ctx, inf)
		}
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}

		translate.Fprintf(os.Stderr, "%v: %d blocks written at $%06X, %d retries, %d passes\n",
			image, emu.Loader.Accepted, cfg.DestBase, emu.Loader.Retries, emu.Ticks)
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()

		err = emu.Cart.Dump(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}
}
