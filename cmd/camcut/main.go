// Command camcut runs the CAM preprocessing pipeline over a drawing: chain
// detection, normalization, part classification and kerf offsetting, with a
// cut-order summary printed at the end.
//
// The drawing is a JSON shape list (the debug interchange format used by the
// importer tests); machine and job parameters come from a TOML config file.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/camforge/cam"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "camcut:", err)
		os.Exit(1)
	}
}

// jobConfig is the TOML job description.
type jobConfig struct {
	// KerfWidth is the full cut width; offsets use half of it.
	KerfWidth float64 `toml:"kerf_width"`
	// ChainTolerance is the endpoint merge distance for chain detection.
	ChainTolerance float64 `toml:"chain_tolerance"`
	// LeadRadius enables lead placement when positive.
	LeadRadius float64 `toml:"lead_radius"`
	// StartX, StartY is the torch home position for sequencing.
	StartX float64 `toml:"start_x"`
	StartY float64 `toml:"start_y"`
	// OptimizeStarts rotates closed-chain seams toward the home position.
	OptimizeStarts bool `toml:"optimize_starts"`
}

func defaultJobConfig() jobConfig {
	return jobConfig{
		KerfWidth:      1.5,
		ChainTolerance: 0.05,
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "camcut <drawing.json>",
		Short: "Prepare a 2D drawing for cutting",
		Long: `camcut detects chains and parts in a drawing, computes kerf-compensated
offset paths and prints the resulting cut order.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultJobConfig()
			if configPath != "" {
				if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
			}
			if verbose {
				cam.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return run(cmd, args[0], cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML job config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	return cmd
}

func run(cmd *cobra.Command, drawingPath string, cfg jobConfig) error {
	shapes, err := loadDrawing(drawingPath)
	if err != nil {
		return fmt.Errorf("load drawing %s: %w", drawingPath, err)
	}

	drawing := cam.NewDrawing(shapes)
	pipeCfg := cam.DefaultPipelineConfig()
	pipeCfg.ChainTolerance = cfg.ChainTolerance
	pipeCfg.StartNear = cam.Point{X: cfg.StartX, Y: cfg.StartY}
	pipeCfg.OptimizeStarts = cfg.OptimizeStarts
	if err := cam.RunPipeline(drawing, pipeCfg); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "shapes: %d  chains: %d  parts: %d\n",
		len(drawing.Shapes), len(drawing.Chains), len(drawing.Parts.Parts))
	for _, w := range drawing.Parts.Warnings {
		fmt.Fprintf(out, "warning: chain %s: %s: %s\n", w.ChainID, w.Kind, w.Message)
	}

	steps := cam.SequenceCuts(drawing.Parts.Parts, cam.Point{X: cfg.StartX, Y: cfg.StartY})
	for i, step := range steps {
		role := "shell"
		if step.IsHole {
			role = "hole"
		}
		fmt.Fprintf(out, "cut %d: %s chain %s (part %s)\n", i+1, role, step.Chain.ID, step.PartID)

		result := cam.OffsetChainBoth(step.Chain, cfg.KerfWidth/2)
		if !result.Success {
			fmt.Fprintf(out, "  offset incomplete\n")
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  offset warning: joint %d: %s: %s\n", w.Joint, w.Kind, w.Message)
		}
		fmt.Fprintf(out, "  offset: inner %d segment(s), outer %d segment(s)\n",
			len(result.Inner.Shapes), len(result.Outer.Shapes))

		if cfg.LeadRadius > 0 {
			lead, err := cam.PlaceLeads(step.Chain, step.IsHole, cam.WithLeadRadius(cfg.LeadRadius))
			if err != nil {
				fmt.Fprintf(out, "  lead: %v\n", err)
			} else {
				fmt.Fprintf(out, "  pierce at (%.3f, %.3f)\n", lead.Pierce.X, lead.Pierce.Y)
			}
		}
	}
	return nil
}

// jsonShape is one entry of the JSON drawing format. Kind selects which
// geometry fields are meaningful.
type jsonShape struct {
	Kind string `json:"kind"`

	// line
	X0, Y0, X1, Y1 float64

	// arc / circle / ellipse
	CX, CY     float64
	R          float64
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Clockwise  bool
	RX, RY     float64
	Rotation   float64
}

func loadDrawing(path string) ([]cam.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []jsonShape
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	shapes := make([]cam.Shape, 0, len(raw))
	for i, js := range raw {
		var g cam.Geometry
		switch js.Kind {
		case "line":
			g = cam.Line{P0: cam.Point{X: js.X0, Y: js.Y0}, P1: cam.Point{X: js.X1, Y: js.Y1}}
		case "arc":
			g = cam.Arc{
				Center:     cam.Point{X: js.CX, Y: js.CY},
				Radius:     js.R,
				StartAngle: js.StartAngle,
				EndAngle:   js.EndAngle,
				Clockwise:  js.Clockwise,
			}
		case "circle":
			g = cam.Circle{Center: cam.Point{X: js.CX, Y: js.CY}, Radius: js.R, Clockwise: js.Clockwise}
		case "ellipse":
			g = cam.Ellipse{
				Center:    cam.Point{X: js.CX, Y: js.CY},
				Rx:        js.RX,
				Ry:        js.RY,
				Rotation:  js.Rotation,
				Clockwise: js.Clockwise,
			}
		default:
			return nil, fmt.Errorf("entry %d: unknown shape kind %q", i, js.Kind)
		}
		shapes = append(shapes, cam.NewShape(g))
	}
	return shapes, nil
}
