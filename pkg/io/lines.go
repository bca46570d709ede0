package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/phylo/pkg/sample"
)

// ErrDuplicateLabel is returned when a sample file repeats a label.
var ErrDuplicateLabel = errors.New("io: duplicate label")

// scanLines calls fn with every non-blank, non-comment line of r and its
// 1-based line number.
func scanLines(r io.Reader, fn func(no int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for no := 1; sc.Scan(); no++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(no, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// ReadSample decodes "label bits" lines into a sample. Every line must carry
// exactly two fields and every genotype the same number of bits.
func ReadSample(r io.Reader) (*sample.Sample, error) {
	s := sample.New()
	err := scanLines(r, func(no int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("line %d: want \"label bits\", got %d fields", no, len(fields))
		}
		g, err := sample.ParseGenotype(fields[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", no, err)
		}
		if _, err := s.Get(fields[0]); err == nil {
			return fmt.Errorf("line %d: %w: %q", no, ErrDuplicateLabel, fields[0])
		}
		if err := s.Set(fields[0], g); err != nil {
			return fmt.Errorf("line %d: %w", no, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ImportSample reads the sample file at path.
func ImportSample(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSample(f)
}

// ReadExprs returns the expressions in r, one per line, unparsed.
func ReadExprs(r io.Reader) ([]string, error) {
	var out []string
	err := scanLines(r, func(_ int, line string) error {
		out = append(out, line)
		return nil
	})
	return out, err
}

// ImportExprs reads the expression file at path.
func ImportExprs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadExprs(f)
}
