// Command buffer reads a single polyline or polygon as whitespace
// separated "x y" coordinate pairs (one per line) from stdin and writes
// its buffered outline, in the same format, to stdout. A line whose first
// and last points coincide is treated as a polygon ring; otherwise it is
// treated as an open line.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/tdewolff/argp"

	buf "github.com/tdewolff/buffer"
)

type Options struct {
	Distance         float64 `short:"d" default:"1.0" desc:"buffer distance"`
	QuadrantSegments int     `short:"q" default:"8" desc:"segments per quadrant for round joins/caps"`
	MitreLimit       float64 `short:"m" default:"5.0" desc:"mitre limit"`
	CapStyle         string  `short:"c" default:"round" desc:"end cap style: round, flat, square"`
	JoinStyle        string  `short:"j" default:"round" desc:"join style: round, mitre, bevel"`
	SingleSided      bool    `desc:"single-sided buffer of a line, trimmed to the offset curve"`
	Left             bool    `desc:"single-sided: buffer the left side instead of the right"`
}

var opts Options

func main() {
	root := argp.New("Buffer a polyline or polygon read as \"x y\" pairs from stdin")
	root.AddStruct(&opts)
	root.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "buffer:", err)
		os.Exit(1)
	}
}

func run() error {
	coords, err := readCoords(os.Stdin)
	if err != nil {
		return err
	}
	if len(coords) < 2 {
		return fmt.Errorf("need at least two coordinates")
	}

	params := buf.NewDefaultBufferParameters()
	params.QuadrantSegments = opts.QuadrantSegments
	params.MitreLimit = opts.MitreLimit
	params.SingleSided = opts.SingleSided
	if params.EndCapStyle, err = parseCapStyle(opts.CapStyle); err != nil {
		return err
	}
	if params.JoinStyle, err = parseJoinStyle(opts.JoinStyle); err != nil {
		return err
	}

	closed := len(coords) > 2 && coords[0] == coords[len(coords)-1]

	var g orb.Geometry
	if closed {
		g = orb.Polygon{orb.Ring(coords)}
	} else {
		g = orb.LineString(coords)
	}

	var result orb.Geometry
	if opts.SingleSided {
		if closed {
			return fmt.Errorf("single-sided buffer requires an open line")
		}
		result, err = buf.BufferLineSingleSided(g, opts.Distance, opts.Left, params, nil, nil)
	} else {
		orch := buf.NewBufferOrchestrator(params, nil, nil)
		result, err = orch.Buffer(g, opts.Distance)
	}
	if err != nil {
		return err
	}

	return writeGeometry(os.Stdout, result)
}

func parseCapStyle(s string) (buf.CapStyle, error) {
	switch strings.ToLower(s) {
	case "round":
		return buf.CapRound, nil
	case "flat":
		return buf.CapFlat, nil
	case "square":
		return buf.CapSquare, nil
	default:
		return 0, fmt.Errorf("unknown cap style %q", s)
	}
}

func parseJoinStyle(s string) (buf.JoinStyle, error) {
	switch strings.ToLower(s) {
	case "round":
		return buf.JoinRound, nil
	case "mitre", "miter":
		return buf.JoinMitre, nil
	case "bevel":
		return buf.JoinBevel, nil
	default:
		return 0, fmt.Errorf("unknown join style %q", s)
	}
}

func readCoords(r io.Reader) ([]orb.Point, error) {
	var coords []orb.Point
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed coordinate line %q", line)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		coords = append(coords, orb.Point{x, y})
	}
	return coords, scanner.Err()
}

func writeGeometry(w io.Writer, g orb.Geometry) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	switch t := g.(type) {
	case orb.Polygon:
		for i, ring := range t {
			if i > 0 {
				fmt.Fprintln(bw)
			}
			writeRing(bw, ring)
		}
	case orb.MultiPolygon:
		for i, poly := range t {
			if i > 0 {
				fmt.Fprintln(bw)
			}
			for _, ring := range poly {
				writeRing(bw, ring)
			}
		}
	case orb.LineString:
		writeRing(bw, orb.Ring(t))
	case orb.MultiLineString:
		for i, l := range t {
			if i > 0 {
				fmt.Fprintln(bw)
			}
			writeRing(bw, orb.Ring(l))
		}
	default:
		return fmt.Errorf("unexpected result geometry type %T", g)
	}
	return nil
}

func writeRing(w *bufio.Writer, ring orb.Ring) {
	for _, p := range ring {
		fmt.Fprintf(w, "%g %g\n", p[0], p[1])
	}
}
