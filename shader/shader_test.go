package shader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dualSource = `#shader vertex
#version 330 core
layout(location = 0) in vec4 position;
void main() { gl_Position = position; }
#shader fragment
#version 330 core
uniform vec4 u_Color;
out vec4 color;
void main() { color = u_Color; }
`

func TestParseSplitsStages(t *testing.T) {
	src, err := Parse(strings.NewReader(dualSource))
	require.NoError(t, err)

	wantVertex := "#version 330 core\n" +
		"layout(location = 0) in vec4 position;\n" +
		"void main() { gl_Position = position; }\n"
	wantFragment := "#version 330 core\n" +
		"uniform vec4 u_Color;\n" +
		"out vec4 color;\n" +
		"void main() { color = u_Color; }\n"

	assert.Equal(t, wantVertex, src.Vertex)
	assert.Equal(t, wantFragment, src.Fragment)
	assert.Zero(t, src.Discarded)
	assert.NotContains(t, src.Vertex, "#shader")
	assert.NotContains(t, src.Fragment, "#shader")
}

func TestParseVertexOnly(t *testing.T) {
	src, err := Parse(strings.NewReader("#shader vertex\nvoid main() {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", src.Vertex)
	assert.Empty(t, src.Fragment)
}

func TestParseNoDirectives(t *testing.T) {
	src, err := Parse(strings.NewReader("void main() {}\n// stray\n"))
	require.NoError(t, err)
	assert.Empty(t, src.Vertex)
	assert.Empty(t, src.Fragment)
	assert.Equal(t, 2, src.Discarded)
}

func TestParseLeadingPayloadDiscarded(t *testing.T) {
	in := "// header comment\n\n#shader fragment\nvoid main() {}\n"
	src, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, src.Discarded)
	assert.Empty(t, src.Vertex)
	assert.Equal(t, "void main() {}\n", src.Fragment)
}

func TestParseVertexKeywordWins(t *testing.T) {
	// A malformed directive naming both stages selects vertex, since the
	// vertex keyword is tested first.
	src, err := Parse(strings.NewReader("#shader vertex fragment\npayload\n"))
	require.NoError(t, err)
	assert.Equal(t, "payload\n", src.Vertex)
	assert.Empty(t, src.Fragment)
}

func TestParseUnknownDirectiveKeepsBucket(t *testing.T) {
	in := "#shader vertex\na\n#shader geometry\nb\n"
	src, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", src.Vertex)
	assert.Empty(t, src.Fragment)
}

func TestParsePreservesLineOrder(t *testing.T) {
	in := "#shader fragment\none\ntwo\n#shader vertex\nthree\n#shader fragment\nfour\n"
	src, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nfour\n", src.Fragment)
	assert.Equal(t, "three\n", src.Vertex)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.shader")
	require.NoError(t, os.WriteFile(path, []byte(dualSource), 0o644))

	src, err := ParseFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, src.Vertex)
	assert.NotEmpty(t, src.Fragment)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.shader"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefault(t *testing.T) {
	src := Default()
	assert.Contains(t, src.Vertex, "gl_Position")
	assert.Contains(t, src.Fragment, "u_Color")
	assert.Zero(t, src.Discarded)
}
