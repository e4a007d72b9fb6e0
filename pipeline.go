package cam

import "fmt"

// Drawing is the shared in-memory state the preprocessing pipeline mutates:
// the imported shape list plus the chains and parts derived from it.
// Chains and parts are recomputed wholesale by pipeline steps, never patched
// in place.
type Drawing struct {
	Shapes []Shape
	Chains []*Chain
	Parts  *PartResult
}

// NewDrawing creates a drawing over an imported shape list.
func NewDrawing(shapes []Shape) *Drawing {
	return &Drawing{Shapes: shapes}
}

// PipelineConfig parameterizes the preprocessing pipeline.
type PipelineConfig struct {
	// ChainTolerance is the endpoint merge distance for chain detection.
	ChainTolerance float64
	// Normalize holds the traversal-repair bounds.
	Normalize NormalizeConfig
	// Translate displaces the whole drawing before detection (zero means
	// no translation).
	Translate Point
	// StartNear is the preferred pierce location for seam optimization.
	StartNear Point
	// OptimizeStarts enables rotating closed chains' seams toward
	// StartNear.
	OptimizeStarts bool
}

// DefaultPipelineConfig returns the pipeline defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ChainTolerance: defaultChainTolerance,
		Normalize:      DefaultNormalizeConfig(),
	}
}

// RunPipeline executes the standard preprocessing sequence — decompose →
// join colinear → translate → detect chains → normalize → optimize starts →
// detect parts — as one transaction. A failing step leaves the drawing as it
// was before the pipeline started.
func RunPipeline(d *Drawing, cfg PipelineConfig) error {
	tm := NewTransactionManager()
	return tm.Run([]Command{
		&translateCommand{drawing: d, delta: cfg.Translate},
		&detectChainsCommand{drawing: d, tolerance: cfg.ChainTolerance},
		&rewriteChainsCommand{drawing: d, cfg: cfg},
		&detectPartsCommand{drawing: d, tolerance: cfg.ChainTolerance},
	})
}

// snapshot captures the replaceable drawing state for undo.
type snapshot struct {
	shapes []Shape
	chains []*Chain
	parts  *PartResult
}

func takeSnapshot(d *Drawing) snapshot {
	return snapshot{shapes: d.Shapes, chains: d.Chains, parts: d.Parts}
}

func (s snapshot) restore(d *Drawing) {
	d.Shapes = s.shapes
	d.Chains = s.chains
	d.Parts = s.parts
}

// translateCommand displaces every shape in the drawing.
type translateCommand struct {
	drawing *Drawing
	delta   Point
	prev    snapshot
}

func (c *translateCommand) CanExecute() bool    { return c.drawing != nil }
func (c *translateCommand) Description() string { return "translate shapes" }

func (c *translateCommand) Execute() error {
	c.prev = takeSnapshot(c.drawing)
	if !c.delta.IsZero() {
		c.drawing.Shapes = TranslateShapes(c.drawing.Shapes, c.delta)
	}
	return nil
}

func (c *translateCommand) Undo() error {
	c.prev.restore(c.drawing)
	return nil
}

// detectChainsCommand replaces the drawing's chain list from its shapes.
type detectChainsCommand struct {
	drawing   *Drawing
	tolerance float64
	prev      snapshot
}

func (c *detectChainsCommand) CanExecute() bool    { return c.drawing != nil }
func (c *detectChainsCommand) Description() string { return "detect chains" }

func (c *detectChainsCommand) Execute() error {
	c.prev = takeSnapshot(c.drawing)
	c.drawing.Chains = DetectChains(c.drawing.Shapes, c.tolerance)
	return nil
}

func (c *detectChainsCommand) Undo() error {
	c.prev.restore(c.drawing)
	return nil
}

// rewriteChainsCommand runs the chain-rewriting passes: polyline
// decomposition, colinear joining, traversal normalization and optional
// seam optimization.
type rewriteChainsCommand struct {
	drawing *Drawing
	cfg     PipelineConfig
	prev    snapshot
}

func (c *rewriteChainsCommand) CanExecute() bool    { return c.drawing != nil }
func (c *rewriteChainsCommand) Description() string { return "normalize chains" }

func (c *rewriteChainsCommand) Execute() error {
	c.prev = takeSnapshot(c.drawing)
	out := make([]*Chain, 0, len(c.drawing.Chains))
	for _, ch := range c.drawing.Chains {
		ch = DecomposePolylines(ch)
		ch = JoinColinearLines(ch, c.cfg.ChainTolerance)
		normalized, err := Normalize(ch, c.cfg.Normalize)
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		if c.cfg.OptimizeStarts {
			normalized = OptimizeStartPoint(normalized, c.cfg.StartNear, c.cfg.ChainTolerance)
		}
		out = append(out, normalized)
	}
	c.drawing.Chains = out
	return nil
}

func (c *rewriteChainsCommand) Undo() error {
	c.prev.restore(c.drawing)
	return nil
}

// detectPartsCommand derives the shell/hole classification from the chains.
type detectPartsCommand struct {
	drawing   *Drawing
	tolerance float64
	prev      snapshot
}

func (c *detectPartsCommand) CanExecute() bool    { return c.drawing != nil }
func (c *detectPartsCommand) Description() string { return "detect parts" }

func (c *detectPartsCommand) Execute() error {
	c.prev = takeSnapshot(c.drawing)
	result := DetectParts(c.drawing.Chains, WithBaseTolerance(c.tolerance))
	c.drawing.Parts = &result
	return nil
}

func (c *detectPartsCommand) Undo() error {
	c.prev.restore(c.drawing)
	return nil
}
