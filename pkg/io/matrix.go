package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/phylo/pkg/distmat"
)

// Format identifies a matrix file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for file extensions other than .json and .toml.
var ErrUnknownFormat = errors.New("io: unknown matrix format")

// FormatFromPath picks the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

type matrixFile struct {
	Labels    []string                      `json:"labels,omitempty" toml:"labels,omitempty"`
	Distances map[string]map[string]float64 `json:"distances" toml:"distances"`
}

// ReadMatrix decodes a matrix in the given format from r. Distances are
// validated by distmat; a pair given in both orientations must agree.
func ReadMatrix(r io.Reader, format Format) (*distmat.Matrix, error) {
	var data matrixFile
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	m, err := distmat.FromMap(data.Distances)
	if err != nil {
		return nil, err
	}
	for _, l := range data.Labels {
		if err := m.Add(l); err != nil {
			return nil, fmt.Errorf("label %q: %w", l, err)
		}
	}
	return m, nil
}

// WriteMatrix encodes m in the given format. Unset pairs are omitted.
func WriteMatrix(w io.Writer, m *distmat.Matrix, format Format) error {
	out := matrixFile{Labels: m.Labels(), Distances: m.Map()}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// ImportMatrix reads the matrix file at path, choosing the format by
// extension.
func ImportMatrix(path string) (*distmat.Matrix, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMatrix(f, format)
}

// ExportMatrix writes m to path, choosing the format by extension.
func ExportMatrix(m *distmat.Matrix, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteMatrix(f, m, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
