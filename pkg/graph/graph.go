package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram converts a Diagram to indented JSON bytes.
// Node and edge order is preserved, so equal diagrams marshal to equal bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDiagramTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, fmt.Errorf("unmarshal diagram: %w", err)
	}
	return d, nil
}

// WriteDiagram writes a Diagram as JSON to an io.Writer.
// Use MarshalDiagram for in-memory serialization or WriteDiagramFile for files.
func WriteDiagram(d Diagram, w io.Writer) error {
	return writeDiagramTo(d, w)
}

// WriteDiagramFile writes a Diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteDiagramFile(d Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDiagramTo(d, f)
}

// ReadDiagram decodes a JSON diagram from an io.Reader.
func ReadDiagram(r io.Reader) (Diagram, error) {
	var d Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Diagram{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadDiagramFile reads a JSON file and returns the decoded Diagram.
func ReadDiagramFile(path string) (Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDiagram(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDiagramTo(d Diagram, w io.Writer) error {
	if d.Nodes == nil {
		d.Nodes = []Node{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
