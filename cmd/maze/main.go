// Command maze drives the day-15 oxygen-system repair droid: a DFS
// backtracking explorer that treats the Intcode Machine purely as an
// external collaborator over a QueuePort pair (one movement command in,
// one status code out per step), per
// original_source/mysolution/day15_oxygen_system/solve.py. The explored
// tile grid is rendered via internal/render's bild/resize/gopnm stack.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"

	"github.com/cirrusnet/intcode/internal/render"
	"github.com/cirrusnet/intcode/pkg/host"
	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
)

const (
	north int64 = 1
	south int64 = 2
	west  int64 = 3
	east  int64 = 4
)

const (
	tileWall   int64 = 0
	tileFloor  int64 = 1
	tileOxygen int64 = 2
	tileStart  int64 = 3
)

var opposite = map[int64]int64{north: south, south: north, west: east, east: west}
var delta = map[int64]render.Point{
	north: {X: 0, Y: -1},
	south: {X: 0, Y: 1},
	west:  {X: -1, Y: 0},
	east:  {X: 1, Y: 0},
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: maze <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "maze:", err)
		os.Exit(1)
	}

	moves := port.NewQueuePort(nil)
	status := port.NewQueuePort(nil)
	m := vm.New(prog, moves, status)
	h := host.New(m, "maze")
	h.Start()
	cancel := m.CancelToken()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		h.RequestCancel()
	}()

	e := &explorer{moves: moves, status: status, cancel: cancel, grid: render.NewGrid()}
	origin := render.Point{}
	e.grid.Set(origin, tileStart)
	oxygenAt, oxygenFound := e.dfs(origin, render.Point{})

	h.RequestCancel()
	h.Wait()

	if !oxygenFound {
		fmt.Println("oxygen system not found")
		os.Exit(1)
	}

	fmt.Println(bfsDistance(e.grid, origin, oxygenAt))
	fmt.Println(fillTime(e.grid, oxygenAt))

	if err := e.grid.SavePNG("maze.png", 12, tilePalette); err != nil {
		fmt.Fprintln(os.Stderr, "maze: PNG export failed:", err)
	}
	if err := e.grid.SavePNM("maze.pnm", 12, tilePalette); err != nil {
		fmt.Fprintln(os.Stderr, "maze: PNM export failed:", err)
	}
}

// tilePalette renders walls dark gray, floor light gray, the start tile
// blue, and the oxygen system green.
func tilePalette(code int64) color.Color {
	switch code {
	case tileWall:
		return color.RGBA{R: 40, G: 40, B: 40, A: 255}
	case tileOxygen:
		return color.RGBA{G: 200, A: 255}
	case tileStart:
		return color.RGBA{B: 200, A: 255}
	default:
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
}

type explorer struct {
	moves  *port.QueuePort
	status *port.QueuePort
	cancel *port.CancelToken
	grid   *render.Grid
}

// dfs explores the maze by trying every untried direction from cur,
// backing the droid out (moving the opposite direction) whenever a
// branch dead-ends, and returns the oxygen system's position once found
// anywhere in the explored subtree.
func (e *explorer) dfs(cur render.Point, cameFrom render.Point) (render.Point, bool) {
	var oxygenAt render.Point
	found := false

	for _, dir := range []int64{north, south, east, west} {
		next := render.Point{X: cur.X + delta[dir].X, Y: cur.Y + delta[dir].Y}
		if _, seen := e.grid.Get(next); seen {
			continue
		}

		if err := e.moves.Write(dir, e.cancel); err != nil {
			return oxygenAt, found
		}
		code, err := e.status.Read(e.cancel)
		if err != nil {
			return oxygenAt, found
		}

		switch code {
		case tileWall:
			e.grid.Set(next, tileWall)
			continue
		case tileFloor, tileOxygen:
			e.grid.Set(next, code)
			if code == tileOxygen {
				oxygenAt, found = next, true
			}
			if sub, ok := e.dfs(next, cur); ok {
				oxygenAt, found = sub, true
			}
			// back out to cur
			e.moves.Write(opposite[dir], e.cancel)
			e.status.Read(e.cancel)
		}
	}

	return oxygenAt, found
}

// bfsDistance returns the shortest path length (in steps) between from
// and to over the explored grid, treating any non-wall tile as
// traversable.
func bfsDistance(g *render.Grid, from, to render.Point) int {
	if from == to {
		return 0
	}
	dist := map[render.Point]int{from: 0}
	queue := []render.Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range delta {
			next := render.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			code, ok := g.Get(next)
			if !ok || code == tileWall {
				continue
			}
			if _, visited := dist[next]; visited {
				continue
			}
			dist[next] = dist[cur] + 1
			if next == to {
				return dist[next]
			}
			queue = append(queue, next)
		}
	}
	return -1
}

// fillTime returns how many minutes oxygen takes to fill every reachable
// floor tile from source, a single-source BFS depth computation.
func fillTime(g *render.Grid, source render.Point) int {
	dist := map[render.Point]int{source: 0}
	queue := []render.Point{source}
	maxDist := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] > maxDist {
			maxDist = dist[cur]
		}
		for _, d := range delta {
			next := render.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			code, ok := g.Get(next)
			if !ok || code == tileWall {
				continue
			}
			if _, visited := dist[next]; visited {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return maxDist
}
