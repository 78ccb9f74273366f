package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"techtree-backend/application/ports"
	"techtree-backend/domain/config"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/valueobjects"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/observability"
)

// DerivedView is a positioned, decorated subgraph ready to draw.
type DerivedView struct {
	Revision    uint64            `json:"revision"`
	Algorithm   string            `json:"algorithm"`
	View        ViewState         `json:"view"`
	FocusNodeID string            `json:"focusNodeId,omitempty"`
	Nodes       []ViewNode        `json:"nodes"`
	Edges       []ViewEdge        `json:"edges"`
	Bounds      valueobjects.Size `json:"bounds"`
}

// ViewNode is a visible node with its top-left position and style hints.
type ViewNode struct {
	ID                  string                `json:"id"`
	Label               string                `json:"label"`
	Category            string                `json:"category"`
	Description         string                `json:"description,omitempty"`
	DetailedDescription string                `json:"detailedDescription,omitempty"`
	TRL                 *int                  `json:"trl,omitempty"`
	Position            valueobjects.Position `json:"position"`
	Width               float64               `json:"width"`
	Height              float64               `json:"height"`
	SourcePosition      string                `json:"sourcePosition"`
	TargetPosition      string                `json:"targetPosition"`
	Focused             bool                  `json:"focused"`
	Style               NodeStyle             `json:"style"`
}

// NodeStyle carries presentation hints for a node box.
type NodeStyle struct {
	BorderColor string `json:"borderColor"`
	BorderWidth int    `json:"borderWidth"`
	BoxShadow   string `json:"boxShadow"`
	FontWeight  string `json:"fontWeight"`
}

// ViewEdge is a visible edge with style hints.
type ViewEdge struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Target    string      `json:"target"`
	Style     EdgeStyle   `json:"style"`
	MarkerEnd ArrowMarker `json:"markerEnd"`
}

// EdgeStyle carries stroke hints.
type EdgeStyle struct {
	Stroke      string `json:"stroke"`
	StrokeWidth int    `json:"strokeWidth"`
}

// ArrowMarker describes the arrow drawn at the edge target.
type ArrowMarker struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

// ViewDeriver turns a ViewState into a DerivedView: select, lay out, decorate.
type ViewDeriver struct {
	source    ports.TechTreeSource
	layouter  ports.Layouter
	config    *config.DomainConfig
	algorithm ports.LayoutAlgorithm
	metrics   *observability.Collector
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewViewDeriver creates a deriver. defaultAlgorithm is used when a request
// does not name one.
func NewViewDeriver(
	source ports.TechTreeSource,
	layouter ports.Layouter,
	cfg *config.DomainConfig,
	defaultAlgorithm ports.LayoutAlgorithm,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ViewDeriver {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if defaultAlgorithm == "" {
		defaultAlgorithm = ports.LayoutLayered
	}
	return &ViewDeriver{
		source:    source,
		layouter:  layouter,
		config:    cfg,
		algorithm: defaultAlgorithm,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// Select resolves the visible subgraph against the active snapshot.
func (d *ViewDeriver) Select(state ViewState) (Selection, uint64, error) {
	tree := d.source.Current()
	if tree == nil {
		return Selection{}, 0, pkgerrors.NewConfigurationError("tech tree dataset is not loaded").WithCode("DATASET_NOT_LOADED")
	}
	sel, err := Select(tree, state)
	return sel, tree.Revision(), err
}

// Derive computes the full derived view. algorithm may be empty.
func (d *ViewDeriver) Derive(ctx context.Context, state ViewState, algorithm ports.LayoutAlgorithm) (*DerivedView, error) {
	sel, revision, err := d.Select(state)
	if err != nil {
		d.metrics.RecordDerivation(observability.StatusInvalid, 0)
		return nil, err
	}

	algo := d.algorithm
	if algorithm != "" {
		algo = algorithm
	}

	view := &DerivedView{
		Revision:  revision,
		Algorithm: string(algo),
		View:      state.Normalized(),
		Nodes:     make([]ViewNode, 0, len(sel.Nodes)),
		Edges:     make([]ViewEdge, 0, len(sel.Edges)),
	}
	if sel.Focus != nil {
		view.FocusNodeID = sel.Focus.ID().String()
	}

	if len(sel.Nodes) == 0 {
		d.metrics.RecordDerivation(observability.StatusSuccess, 0)
		return view, nil
	}

	anchors, err := d.layout(ctx, sel, algo)
	if err != nil {
		d.metrics.RecordDerivation(observability.StatusFailure, 0)
		d.logger.Warn("Layout failed",
			zap.String("algorithm", string(algo)),
			zap.Int("nodes", len(sel.Nodes)),
			zap.Error(err),
		)
		return nil, err
	}

	d.decorate(view, sel, anchors)
	d.metrics.RecordDerivation(observability.StatusSuccess, len(view.Nodes))

	d.logger.Debug("Derived view",
		zap.Uint64("revision", revision),
		zap.String("algorithm", string(algo)),
		zap.Int("nodes", len(view.Nodes)),
		zap.Int("edges", len(view.Edges)),
	)
	return view, nil
}

func (d *ViewDeriver) layout(ctx context.Context, sel Selection, algo ports.LayoutAlgorithm) (map[string]valueobjects.Position, error) {
	size := d.config.NodeSize()
	req := ports.LayoutRequest{
		Nodes: make([]ports.LayoutNode, 0, len(sel.Nodes)),
		Edges: make([]ports.LayoutEdge, 0, len(sel.Edges)),
		Options: ports.LayoutOptions{
			Algorithm:    algo,
			LayerSpacing: d.config.LayerSpacing,
			NodeSpacing:  d.config.NodeSpacing,
		},
	}
	for _, n := range sel.Nodes {
		req.Nodes = append(req.Nodes, ports.LayoutNode{ID: n.ID().String(), Size: size})
	}
	for _, e := range sel.Edges {
		req.Edges = append(req.Edges, ports.LayoutEdge{Source: e.Source().String(), Target: e.Target().String()})
	}

	var anchors map[string]valueobjects.Position
	start := time.Now()
	err := d.tracer.TraceFunction(ctx, "layout", func(ctx context.Context) error {
		d.tracer.AddAnnotation(ctx, "algorithm", string(algo))
		d.tracer.AddMetadata(ctx, "nodes", len(req.Nodes))
		var lerr error
		anchors, lerr = d.layouter.Layout(ctx, req)
		return lerr
	})
	d.metrics.RecordLayout(string(algo), time.Since(start))
	if err != nil {
		return nil, pkgerrors.NewExternalError("layout", err)
	}

	for _, n := range req.Nodes {
		if _, ok := anchors[n.ID]; !ok {
			return nil, pkgerrors.NewExternalError("layout", fmt.Errorf("no position for node %q", n.ID)).
				WithDetails(map[string]interface{}{"node": n.ID})
		}
	}
	return anchors, nil
}

func (d *ViewDeriver) decorate(view *DerivedView, sel Selection, anchors map[string]valueobjects.Position) {
	cfg := d.config
	size := cfg.NodeSize()

	maxX, maxY := 0.0, 0.0
	for _, n := range sel.Nodes {
		id := n.ID().String()
		pos := anchors[id].TopLeft(size)
		focused := sel.Focus != nil && sel.Focus.ID().Equals(n.ID())

		vn := ViewNode{
			ID:                  id,
			Label:               n.Label(),
			Category:            n.Category().String(),
			Description:         n.Description(),
			DetailedDescription: n.DetailedDescription(),
			Position:            pos,
			Width:               size.Width,
			Height:              size.Height,
			SourcePosition:      cfg.SourceHandlePosition,
			TargetPosition:      cfg.TargetHandlePosition,
			Focused:             focused,
			Style:               d.nodeStyle(n, focused),
		}
		if n.TRL().Known() {
			trl := int(n.TRL())
			vn.TRL = &trl
		}
		view.Nodes = append(view.Nodes, vn)

		maxX = math.Max(maxX, pos.X+size.Width)
		maxY = math.Max(maxY, pos.Y+size.Height)
	}
	view.Bounds = valueobjects.Size{Width: maxX, Height: maxY}

	for _, e := range sel.Edges {
		view.Edges = append(view.Edges, ViewEdge{
			ID:     e.ID(),
			Source: e.Source().String(),
			Target: e.Target().String(),
			Style: EdgeStyle{
				Stroke:      cfg.EdgeStroke,
				StrokeWidth: cfg.EdgeStrokeWidth,
			},
			MarkerEnd: ArrowMarker{
				Type:   "arrowclosed",
				Width:  cfg.ArrowMarkerSize,
				Height: cfg.ArrowMarkerSize,
				Color:  cfg.EdgeStroke,
			},
		})
	}
}

func (d *ViewDeriver) nodeStyle(n *entities.Node, focused bool) NodeStyle {
	style := NodeStyle{
		BorderColor: d.config.ColorFor(n.Category()),
		BorderWidth: d.config.BorderWidth,
		BoxShadow:   "none",
		FontWeight:  d.config.DefaultFontWeight,
	}
	if focused {
		style.BorderWidth = d.config.FocusBorderWidth
		style.BoxShadow = d.config.FocusRing
		style.FontWeight = d.config.FocusFontWeight
	}
	return style
}
