package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys.
type Keyer interface {
	// DiagramKey returns the key of the diagram computed from the input
	// whose [Hash] is inputHash.
	DiagramKey(inputHash string, opts DiagramKeyOpts) string

	// ArtifactKey returns the key of an artifact rendered from the diagram
	// whose [Hash] is diagramHash.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts are the layout settings that change the diagram.
type DiagramKeyOpts struct {
	NodeHeight   float64 `json:"node_height"`
	XSpacing     float64 `json:"x_spacing"`
	MinSpacing   float64 `json:"min_spacing"`
	GroupSpacing float64 `json:"group_spacing"`
	MaxDepth     int     `json:"max_depth"`
	Repair       bool    `json:"repair"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Detailed   bool    `json:"detailed,omitempty"`
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`
}

// DefaultKeyer produces "diagram:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey implements Keyer.
func (DefaultKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 digest of data. Inputs and diagrams are
// identified by their Hash in cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the digest of the JSON encoding of parts.
// Struct options encode with fixed field order, so equal options give equal
// keys.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
