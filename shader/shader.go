// Package shader loads dual-source shader files. A single file carries both
// GLSL stages, delimited by line directives of the form:
//
//	#shader vertex
//	...vertex stage source...
//	#shader fragment
//	...fragment stage source...
//
// Directive lines select the accumulation bucket for the payload lines that
// follow and are never emitted into either stage.
package shader

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

// directiveMarker starts a stage directive line.
const directiveMarker = "#shader"

// Source holds the two stage sources extracted from a dual-source file.
// Immutable once returned; hand it straight to the program builder.
// Discarded counts payload lines that appeared before any directive; they
// belong to no stage and are dropped rather than leaking into the vertex
// bucket.
type Source struct {
	Vertex    string
	Fragment  string
	Discarded int
}

type stage int

const (
	stageNone stage = iota
	stageVertex
	stageFragment
)

//go:embed default.shader
var defaultSource string

// Default returns the built-in color-quad shader used when no file is given.
func Default() Source {
	src, err := Parse(strings.NewReader(defaultSource))
	if err != nil {
		panic(err)
	}
	return src
}

// ParseFile reads and splits the dual-source shader file at path. A missing
// or unreadable file is an error, never empty stages.
func ParseFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open shader %q: %w", path, err)
	}
	defer f.Close()

	src, err := Parse(f)
	if err != nil {
		return Source{}, fmt.Errorf("parse shader %q: %w", path, err)
	}
	return src, nil
}

// Parse splits a dual-source stream into its vertex and fragment stages.
// The vertex keyword is tested before fragment, so a directive naming both
// selects the vertex bucket. A directive naming neither keeps the previous
// bucket.
func Parse(r io.Reader) (Source, error) {
	var vertex, fragment strings.Builder
	current := stageNone
	discarded := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, directiveMarker) {
			switch {
			case strings.Contains(line, "vertex"):
				current = stageVertex
			case strings.Contains(line, "fragment"):
				current = stageFragment
			}
			continue
		}
		switch current {
		case stageVertex:
			vertex.WriteString(line)
			vertex.WriteByte('\n')
		case stageFragment:
			fragment.WriteString(line)
			fragment.WriteByte('\n')
		default:
			discarded++
		}
	}
	if err := sc.Err(); err != nil {
		return Source{}, fmt.Errorf("read shader source: %w", err)
	}

	return Source{
		Vertex:    vertex.String(),
		Fragment:  fragment.String(),
		Discarded: discarded,
	}, nil
}
