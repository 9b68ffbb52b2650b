package main

import (
	"fmt"
	"strconv"
	"strings"

	"convertflow/internal/core/geometry"

	"github.com/spf13/cobra"
)

type cropRequest struct {
	Page geometry.Size
	Min  geometry.Size
	Rect geometry.Rect
	Mode geometry.DragMode
	From geometry.Point
	// Path is every pointer position after From. The last one is the release point.
	Path []geometry.Point
}

func newCropCmd() *cobra.Command {
	var page, minSize, rect, mode, from string
	var to []string

	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Run one drag of the crop region editor and print the resulting region",
		Example: `  convert crop --page 600x800 --min 20x20 --rect 100,100,200,200 --mode se --from 300,300 --to 700,900
  convert crop --page 600x800 --rect 0,0,100,100 --mode move --from 50,50 --to 80,60 --to 120,90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseCropRequest(page, minSize, rect, mode, from, to)
			if err != nil {
				return err
			}
			region, moves := runCrop(req)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "moves  %d\n", moves)
			fmt.Fprintf(out, "region x=%g y=%g w=%g h=%g\n", region.X, region.Y, region.W, region.H)
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "Page size WxH")
	cmd.Flags().StringVar(&minSize, "min", "1x1", "Minimum region size WxH")
	cmd.Flags().StringVar(&rect, "rect", "", "Initial region X,Y,W,H")
	cmd.Flags().StringVar(&mode, "mode", string(geometry.DragMove), "Drag mode: move, nw, ne, sw, se")
	cmd.Flags().StringVar(&from, "from", "", "Pointer down position X,Y")
	cmd.Flags().StringArrayVar(&to, "to", nil, "Pointer position X,Y, repeatable; the last one releases")
	cmd.MarkFlagRequired("page")
	cmd.MarkFlagRequired("rect")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

// runCrop replays a drag through an editor and returns the final region with the number of updates seen
func runCrop(req cropRequest) (geometry.Rect, int) {
	bus := geometry.NewBus()
	editor := geometry.NewEditor(bus, req.Page, req.Min, req.Rect)
	defer editor.Close()

	updates := 0
	editor.OnChange(func(geometry.Rect) { updates++ })

	editor.Begin(req.Mode, req.From)
	for i, p := range req.Path {
		if i == len(req.Path)-1 {
			bus.Up(p)
			break
		}
		bus.Move(p)
	}
	return editor.Region(), updates
}

func parseCropRequest(page, minSize, rect, mode, from string, to []string) (cropRequest, error) {
	var req cropRequest
	var err error

	if req.Page, err = parseSize(page); err != nil {
		return req, fmt.Errorf("--page: %w", err)
	}
	if req.Min, err = parseSize(minSize); err != nil {
		return req, fmt.Errorf("--min: %w", err)
	}
	v, err := parseFloats(rect, ",", 4)
	if err != nil {
		return req, fmt.Errorf("--rect: %w", err)
	}
	req.Rect = geometry.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}

	if req.Mode, err = geometry.ParseDragMode(mode); err != nil {
		return req, err
	}
	if req.From, err = parsePoint(from); err != nil {
		return req, fmt.Errorf("--from: %w", err)
	}
	if len(to) == 0 {
		return req, fmt.Errorf("--to: at least one position is required")
	}
	for _, s := range to {
		p, err := parsePoint(s)
		if err != nil {
			return req, fmt.Errorf("--to: %w", err)
		}
		req.Path = append(req.Path, p)
	}
	return req, nil
}

func parseSize(s string) (geometry.Size, error) {
	v, err := parseFloats(strings.ToLower(s), "x", 2)
	if err != nil {
		return geometry.Size{}, err
	}
	if v[0] < 0 || v[1] < 0 {
		return geometry.Size{}, fmt.Errorf("negative size %q", s)
	}
	return geometry.Size{W: v[0], H: v[1]}, nil
}

func parsePoint(s string) (geometry.Point, error) {
	v, err := parseFloats(s, ",", 2)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: v[0], Y: v[1]}, nil
}

func parseFloats(s, sep string, n int) ([]float64, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = f
	}
	return out, nil
}
