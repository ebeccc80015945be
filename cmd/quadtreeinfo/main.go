// quadtreeinfo builds a terrain quadtree from a heightmap without a GPU and
// reports on its shape.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/quadtree"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "stats":
		err = cmdStats(args, os.Stdout)
	case "leaves", "ls":
		err = cmdLeaves(args, os.Stdout)
	case "height", "h":
		err = cmdHeight(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`quadtreeinfo - terrain quadtree inspector

Usage:
  quadtreeinfo <command> [options] <heightmap>

Commands:
  stats  <heightmap>                 Show node, leaf and triangle counts
  leaves <heightmap>                 List every leaf with its bounds
  height <heightmap> <x,z> [x,z...]  Query the terrain height at points

Options:
  -scale N     Divide pixel heights by N (default from config)
  -leaf-max N  Maximum triangles per leaf
  -depth N     Maximum tree depth
  -v           Log at debug level

Examples:
  quadtreeinfo stats data/heightmap.bmp
  quadtreeinfo height -scale 15 data/heightmap.bmp 128,64 10.5,3`)
}

type options struct {
	scale   float32
	leafMax int
	depth   int
	verbose bool
}

func parseOptions(name string, args []string) (options, []string, error) {
	defaults := config.Default().Terrain

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	scale := fs.Float64("scale", float64(defaults.HeightScale), "height divisor")
	leafMax := fs.Int("leaf-max", defaults.MaxTrianglesPerLeaf, "maximum triangles per leaf")
	depth := fs.Int("depth", defaults.MaxDepth, "maximum tree depth")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if fs.NArg() < 1 {
		return options{}, nil, errors.New("missing heightmap path")
	}
	return options{
		scale:   float32(*scale),
		leafMax: *leafMax,
		depth:   *depth,
		verbose: *verbose,
	}, fs.Args(), nil
}

// buildTree loads the heightmap and partitions it into an in-memory tree.
func buildTree(path string, opts options) (*quadtree.QuadTree, *quadtree.MemoryAllocator, error) {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, nil, err
	}

	hm, err := terrain.LoadHeightmap(path)
	if err != nil {
		return nil, nil, err
	}
	hm.Scale(opts.scale)

	mesh, err := terrain.BuildMesh(hm, terrain.MeshOptions{TextureRepeat: 1})
	if err != nil {
		return nil, nil, err
	}

	alloc := quadtree.NewMemoryAllocator()
	tree := quadtree.New(alloc,
		quadtree.WithMaxTrianglesPerLeaf(opts.leafMax),
		quadtree.WithMaxDepth(opts.depth),
	)
	if err := tree.Initialize(mesh); err != nil {
		return nil, nil, err
	}
	return tree, alloc, nil
}

func cmdStats(args []string, out io.Writer) error {
	opts, rest, err := parseOptions("stats", args)
	if err != nil {
		return err
	}
	tree, alloc, err := buildTree(rest[0], opts)
	if err != nil {
		return err
	}
	defer tree.Release()

	st := tree.Stats()
	fmt.Fprintf(out, "Heightmap:        %s\n", rest[0])
	fmt.Fprintf(out, "Root:             center (%.2f, %.2f), width %.2f\n", st.RootCenterX, st.RootCenterZ, st.RootWidth)
	fmt.Fprintf(out, "Nodes:            %d\n", st.Nodes)
	fmt.Fprintf(out, "Leaves:           %d\n", st.Leaves)
	fmt.Fprintf(out, "Depth:            %d\n", st.MaxDepth)
	fmt.Fprintf(out, "Source triangles: %d\n", st.SourceTriangles)
	fmt.Fprintf(out, "Leaf triangles:   %d (%d duplicated on boundaries)\n", st.LeafTriangles, st.Duplicated)
	fmt.Fprintf(out, "Leaf memory:      %s\n", formatBytes(alloc.Bytes()))
	return nil
}

func cmdLeaves(args []string, out io.Writer) error {
	opts, rest, err := parseOptions("leaves", args)
	if err != nil {
		return err
	}
	tree, _, err := buildTree(rest[0], opts)
	if err != nil {
		return err
	}
	defer tree.Release()

	fmt.Fprintf(out, "%-6s %-6s %-22s %-10s %s\n", "ID", "DEPTH", "CENTER", "WIDTH", "TRIANGLES")
	tree.Walk(func(id quadtree.NodeID, n *quadtree.Node, depth int) bool {
		if n.HasMesh {
			center := fmt.Sprintf("(%.2f, %.2f)", n.CenterX, n.CenterZ)
			fmt.Fprintf(out, "%-6d %-6d %-22s %-10.2f %d\n", id, depth, center, n.Width(), n.TriangleCount)
		}
		return true
	})
	return nil
}

func cmdHeight(args []string, out io.Writer) error {
	opts, rest, err := parseOptions("height", args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return errors.New("no query points given")
	}
	points := make([][2]float32, 0, len(rest)-1)
	for _, arg := range rest[1:] {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}
		points = append(points, p)
	}

	tree, _, err := buildTree(rest[0], opts)
	if err != nil {
		return err
	}
	defer tree.Release()

	for _, p := range points {
		if h, ok := tree.HeightAt(p[0], p[1]); ok {
			fmt.Fprintf(out, "%g,%g\t%.4f\n", p[0], p[1], h)
		} else {
			fmt.Fprintf(out, "%g,%g\toff terrain\n", p[0], p[1])
		}
	}
	return nil
}

// parsePoint reads an "x,z" pair.
func parsePoint(s string) ([2]float32, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float32{}, fmt.Errorf("invalid point %q: want x,z", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return [2]float32{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 32)
	if err != nil {
		return [2]float32{}, fmt.Errorf("invalid z in %q: %w", s, err)
	}
	return [2]float32{float32(x), float32(z)}, nil
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
