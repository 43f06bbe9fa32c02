package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jroimartin/gocui"

	"github.com/ezrec/sfcload/emulator"
	"github.com/ezrec/sfcload/loader"
	"github.com/ezrec/sfcload/status"
)

const (
	VIEW_SCREEN   = "screen"
	VIEW_PROGRESS = "progress"
	VIEW_LOG      = "log"

	REFRESH_BLOCKS = 64 // Blocks between screen refreshes.
)

// viewWriter appends to a view from any goroutine.
type viewWriter struct {
	g    *gocui.Gui
	name string
}

func (vw viewWriter) Write(p []byte) (n int, err error) {
	buf := append([]byte(nil), p...)
	vw.g.Update(func(g *gocui.Gui) error {
		v, err := g.View(vw.name)
		if err != nil {
			return err
		}
		_, err = v.Write(buf)
		return err
	})
	n = len(p)
	return
}

func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	width := status.COLUMNS + 1
	height := status.ROWS + 1

	if v, err := g.SetView(VIEW_SCREEN, 0, 0, width, height); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = emulator.TITLE
	}

	if v, err := g.SetView(VIEW_PROGRESS, width+1, 0, maxX-1, 4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Progress"
	}

	if v, err := g.SetView(VIEW_LOG, width+1, 5, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Log"
		v.Autoscroll = true
		v.Wrap = true
	}

	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// render copies the console screen and progress line into their views.
func render(g *gocui.Gui, screen string, progress string) {
	g.Update(func(g *gocui.Gui) error {
		v, err := g.View(VIEW_SCREEN)
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, screen)

		v, err = g.View(VIEW_PROGRESS)
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, progress)
		return nil
	})
}

// runScreen performs the transfer while showing the console screen. The
// screen stays up after the transfer until ^C.
func runScreen(ctx context.Context, emu *emulator.Emulator, image io.ReaderAt) (err error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	err = g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit)
	if err != nil {
		return
	}

	logger := log.Writer()
	log.SetOutput(viewWriter{g: g, name: VIEW_LOG})
	defer log.SetOutput(logger)

	emu.Loader.Progress = func(pr loader.Progress) {
		if pr.Accepted && pr.Session.Block%REFRESH_BLOCKS != 0 && pr.Session.Mode == loader.MODE_TRANSFER {
			return
		}
		render(g, emu.Screen.String(),
			fmt.Sprintf("block %d/%d\nretries %d", pr.Session.Block, pr.Blocks, pr.Retries))
	}
	defer func() { emu.Loader.Progress = nil }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		terr := emu.Transfer(ctx, image)
		text := "done, ^C to exit"
		if terr != nil {
			text = terr.Error()
		}
		render(g, emu.Screen.String(), text)
		done <- terr
	}()

	err = g.MainLoop()
	if err == gocui.ErrQuit {
		err = nil
	}

	cancel()
	terr := <-done
	if err == nil {
		err = terr
	}

	return
}
