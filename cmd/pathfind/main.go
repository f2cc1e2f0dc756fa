package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tablenav/tablenav/internal/config"
	"github.com/tablenav/tablenav/internal/mask"
	"github.com/tablenav/tablenav/internal/nav"
	"github.com/tablenav/tablenav/internal/viz"
)

// point mirrors the service's path wire format so tool output can be fed to
// the same consumers.
type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func main() {
	// Paths go to stdout; keep logs on stderr and quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cmd := &cli.Command{
		Name:  "pathfind",
		Usage: "plan routes over a tabletop mask image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "mask",
				Aliases:  []string{"m"},
				Usage:    "mask image file (PNG or JPEG, dark = obstacle)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "route",
				Aliases: []string{"r"},
				Usage:   "route as \"x1,y1:x2,y2\", either side empty for the default endpoint (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "smooth",
				Usage: "reduce each path to line-of-sight waypoints",
			},
			&cli.StringFlag{
				Name:  "viz",
				Usage: "write a PNG visualization of each route to this file",
			},
			&cli.IntFlag{
				Name:  "scale",
				Usage: "visualization pixels per cell",
				Value: 8,
			},
		},
		Action: runPathfind,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pathfind:", err)
		os.Exit(1)
	}
}

func runPathfind(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("mask"))
	if err != nil {
		return fmt.Errorf("reading mask: %w", err)
	}

	img, err := mask.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding mask: %w", err)
	}

	bounds := config.Default().Server
	if ratio := img.BlockedRatio(); ratio < bounds.MinBlockedRatio || ratio > bounds.MaxBlockedRatio {
		slog.Warn("suspicious mask segmentation", "blocked_ratio", ratio)
	}

	grid, err := img.Grid()
	if err != nil {
		return fmt.Errorf("building grid: %w", err)
	}
	engine := nav.NewEngine(grid)

	specs := []routeSpec{{}}
	if args := cmd.StringSlice("route"); len(args) > 0 {
		specs = specs[:0]
		for _, arg := range args {
			spec, err := parseRoute(arg)
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}
	}

	// All routes share the one grid; searches are independent.
	paths := make([][]nav.Point, len(specs))
	g, _ := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			start, end := grid.ResolveEndpoints(spec.start, spec.end)
			res, err := engine.FindPath(start, end)
			if err != nil {
				return fmt.Errorf("route %v -> %v: %w", start, end, err)
			}
			pts := res.Points
			if cmd.Bool("smooth") {
				pts = engine.Smooth(pts)
			}
			paths[i] = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	for _, pts := range paths {
		wire := make([]point, 0, len(pts))
		for _, p := range pts {
			wire = append(wire, point{X: p.X, Y: p.Y})
		}
		if err := out.Encode(wire); err != nil {
			return fmt.Errorf("writing path: %w", err)
		}
	}

	if base := cmd.String("viz"); base != "" {
		for i, pts := range paths {
			name := vizName(base, i, len(paths))
			if err := viz.SavePNG(name, grid, pts, int(cmd.Int("scale"))); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
		}
	}

	return nil
}

// vizName numbers the output files when several routes are drawn.
func vizName(base string, i, n int) string {
	if n == 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), i+1, ext)
}
