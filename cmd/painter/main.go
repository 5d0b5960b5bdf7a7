// Command painter runs the hull-painting robot brain (day-11 "Space
// Police") against a camera/motor QueuePort pair and renders the
// resulting panel layout, per
// original_source/mysolution/day11_space_police/solve.py: the robot
// control loop (observe panel, paint, turn, move) runs on its own
// goroutine alongside the brain Machine's host goroutine, exactly as
// the original runs its control loop on a second thread against
// `brain.run_until_terminate()`. Part 2's registration-identifier panel
// is exported as a full-size PNG, a resized thumbnail, and a PNM bitmap,
// exercising the image stack named in SPEC_FULL.md's domain table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/cirrusnet/intcode/internal/render"
	"github.com/cirrusnet/intcode/pkg/host"
	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
	"github.com/cirrusnet/intcode/pkg/vmlog"
)

const (
	black int64 = 0
	white int64 = 1
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: painter <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "painter:", err)
		os.Exit(1)
	}

	panel1 := paint(prog, black)
	fmt.Println(panel1.Len())

	panel2 := paint(prog, white)
	palette := func(code int64) color.Color {
		if code == white {
			return color.White
		}
		return color.Black
	}
	if err := panel2.SavePNG("painter_panel.png", 10, palette); err != nil {
		vmlog.Warn("painter: PNG export failed: %v", err)
	}
	if err := panel2.SaveThumbnailPNG("painter_panel_thumb.png", 80, palette); err != nil {
		vmlog.Warn("painter: thumbnail export failed: %v", err)
	}
	if err := panel2.SavePNM("painter_panel.pnm", 10, palette); err != nil {
		vmlog.Warn("painter: PNM export failed: %v", err)
	}
}

// paint runs the brain program once, starting the origin panel at
// startColor, and returns every panel it ever painted.
func paint(prog []int64, startColor int64) *render.Grid {
	camera := port.NewQueuePort(nil)
	motor := port.NewQueuePort(nil)

	m := vm.New(prog, camera, motor)
	h := host.New(m, "painter")
	cancel := m.CancelToken()

	grid := render.NewGrid()
	pos := render.Point{X: 0, Y: 0}
	dir := 0 // 0=up, 1=right, 2=down, 3=left
	grid.Set(pos, startColor)

	controlDone := make(chan struct{})
	go func() {
		defer close(controlDone)
		for {
			cur, _ := grid.Get(pos)
			if err := camera.Write(cur, cancel); errors.Is(err, port.ErrCancelled) {
				return
			}

			paintColor, err := motor.Read(cancel)
			if errors.Is(err, port.ErrCancelled) {
				return
			}
			grid.Set(pos, paintColor)

			turn, err := motor.Read(cancel)
			if errors.Is(err, port.ErrCancelled) {
				return
			}
			if turn == 0 {
				dir = (dir + 3) % 4
			} else {
				dir = (dir + 1) % 4
			}
			pos = step(pos, dir)
		}
	}()

	h.RunUntilTerminate()
	h.RequestCancel()
	<-controlDone

	return grid
}

func step(p render.Point, dir int) render.Point {
	switch dir {
	case 0:
		return render.Point{X: p.X, Y: p.Y - 1}
	case 1:
		return render.Point{X: p.X + 1, Y: p.Y}
	case 2:
		return render.Point{X: p.X, Y: p.Y + 1}
	default:
		return render.Point{X: p.X - 1, Y: p.Y}
	}
}
