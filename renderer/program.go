package renderer

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"quadview/shader"
)

// newProgram compiles both stages of src and links them into one program.
// Stage objects are deleted once linked.
func newProgram(src shader.Source) (uint32, error) {
	vertexShader, err := compileShader(src.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", logText)
	}
	gl.ValidateProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles one stage. On failure the driver's info log is
// returned in the error and the shader object is released, so no caller ever
// sees a dangling name.
func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(logText))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return sh, nil
}

// uniformLocation resolves name in program. A missing uniform is a
// configuration error, not a silent -1.
func uniformLocation(program uint32, name string) (int32, error) {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc == -1 {
		return 0, fmt.Errorf("uniform %q not found in program", name)
	}
	return loc, nil
}
