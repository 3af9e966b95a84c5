// Package main is a headless terrain generator. It builds the configured
// terrain once, reports per-patch statistics and can export the result.
//
// Usage:
//
//	marchgen [flags]
//
// Besides the shared config flags:
//
//	-patches        print one line per patch
//	-obj <path>     write the terrain as a Wavefront OBJ file
//	-write-config   save the effective config and exit
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/marching-terrain/internal/config"
	"github.com/Faultbox/marching-terrain/internal/export"
	"github.com/Faultbox/marching-terrain/internal/logger"
	"github.com/Faultbox/marching-terrain/internal/session"
	"github.com/Faultbox/marching-terrain/internal/terrain"
)

var (
	flagPatches     = flag.Bool("patches", false, "Print statistics for every patch")
	flagOBJ         = flag.String("obj", "", "Write the terrain to this OBJ file")
	flagWriteConfig = flag.String("write-config", "", "Save the effective config to this path and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("marchgen failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if *flagWriteConfig != "" {
		if err := cfg.SaveTo(*flagWriteConfig); err != nil {
			return err
		}
		logger.Info("config written", zap.String("path", *flagWriteConfig))
		return nil
	}

	sess, err := session.New(*cfg, logger.Named("terrain"))
	if err != nil {
		return err
	}
	t := sess.Terrain()

	printSummary(t)
	if *flagPatches {
		printPatches(t.Patches())
	}

	if *flagOBJ != "" {
		if err := writeOBJ(*flagOBJ, t.Patches()); err != nil {
			return err
		}
		logger.Info("obj written", zap.String("path", *flagOBJ))
	}
	return nil
}

func printSummary(t *terrain.Terrain) {
	l := t.Layout()
	st := t.Stats()
	fmt.Printf("Grid:      %d x %d cells (%d x %d nodes)\n", l.CellsX, l.CellsZ, l.NodesX, l.NodesZ)
	fmt.Printf("Patches:   %d x %d = %d\n", l.PatchesX, l.PatchesZ, st.Patches)
	fmt.Printf("Vertices:  %d\n", st.Vertices)
	fmt.Printf("Triangles: %d\n", st.Triangles)
}

func printPatches(patches []terrain.Patch) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tCOL\tCELLS\tVERTICES\tTRIANGLES\tMIN\tMAX")
	for _, p := range patches {
		m := p.Mesh
		if m.Bounds.Empty() {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t-\t-\n", p.Coord.Row, p.Coord.Col, m.Cells, len(m.Vertices), m.TriangleCount())
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.2f,%.2f,%.2f\t%.2f,%.2f,%.2f\n",
			p.Coord.Row, p.Coord.Col, m.Cells, len(m.Vertices), m.TriangleCount(),
			m.Bounds.Min.X, m.Bounds.Min.Y, m.Bounds.Min.Z,
			m.Bounds.Max.X, m.Bounds.Max.Y, m.Bounds.Max.Z)
	}
	w.Flush()
}

func writeOBJ(path string, patches []terrain.Patch) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteOBJ(f, patches)
}
