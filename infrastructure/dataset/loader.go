// Package dataset loads, validates and hot-reloads the tech tree.
package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"techtree-backend/domain/config"
	"techtree-backend/domain/core/aggregates"
	"techtree-backend/domain/core/entities"
	"techtree-backend/domain/core/validators"
)

// EmbeddedSourceName labels snapshots built from the compiled-in dataset.
const EmbeddedSourceName = "embedded"

//go:embed data/techtree.yaml
var embeddedTree []byte

// Format is a dataset serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// File is the on-disk shape of a dataset.
type File struct {
	Nodes []NodeRecord `yaml:"nodes" json:"nodes"`
	Edges []EdgeRecord `yaml:"edges" json:"edges"`
}

// NodeRecord is one node entry in a dataset file.
type NodeRecord struct {
	ID                  string `yaml:"id" json:"id"`
	Label               string `yaml:"label" json:"label"`
	Category            string `yaml:"category" json:"category"`
	Description         string `yaml:"description,omitempty" json:"description,omitempty"`
	DetailedDescription string `yaml:"detailedDescription,omitempty" json:"detailedDescription,omitempty"`
	TRL                 int    `yaml:"trl,omitempty" json:"trl,omitempty"`
}

// EdgeRecord is one edge entry in a dataset file.
type EdgeRecord struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Parse decodes raw bytes. Unknown fields are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}
	return &f, nil
}

// Build validates a decoded file into an aggregate.
func (f *File) Build(cfg *config.DomainConfig) (*aggregates.TechTree, error) {
	nodes := make([]entities.NodeSpec, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes = append(nodes, entities.NodeSpec{
			ID:                  n.ID,
			Label:               n.Label,
			Category:            n.Category,
			Description:         n.Description,
			DetailedDescription: n.DetailedDescription,
			TRL:                 n.TRL,
		})
	}
	edges := make([]validators.EdgeSpec, 0, len(f.Edges))
	for _, e := range f.Edges {
		edges = append(edges, validators.EdgeSpec{Source: e.Source, Target: e.Target})
	}
	return aggregates.NewTechTree(nodes, edges, cfg)
}

// FromTree converts an aggregate back to its file shape.
func FromTree(tree *aggregates.TechTree) *File {
	f := &File{
		Nodes: make([]NodeRecord, 0, len(tree.Nodes())),
		Edges: make([]EdgeRecord, 0, len(tree.Edges())),
	}
	for _, n := range tree.Nodes() {
		s := n.Spec()
		f.Nodes = append(f.Nodes, NodeRecord{
			ID:                  s.ID,
			Label:               s.Label,
			Category:            s.Category,
			Description:         s.Description,
			DetailedDescription: s.DetailedDescription,
			TRL:                 s.TRL,
		})
	}
	for _, e := range tree.Edges() {
		f.Edges = append(f.Edges, EdgeRecord{Source: e.Source().String(), Target: e.Target().String()})
	}
	return f
}

// LoadFile reads and validates a dataset file.
func LoadFile(path string, cfg *config.DomainConfig) (*aggregates.TechTree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Build(cfg)
}

// LoadEmbedded returns the compiled-in dataset.
func LoadEmbedded(cfg *config.DomainConfig) (*aggregates.TechTree, error) {
	f, err := Parse(embeddedTree, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return f.Build(cfg)
}
