package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pbrview/internal/engine/shader"
)

// Shader build failures. The driver's info log follows the sentinel.
var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

// stage is one shader stage of a program.
type stage struct {
	kind   uint32
	label  string
	source string
}

// CompileNamed builds one of the embedded programs by name.
func CompileNamed(name string) (uint32, error) {
	vs, fs, err := shader.Source(name)
	if err != nil {
		return 0, err
	}
	prog, err := CompileProgram(vs, fs)
	if err != nil {
		return 0, fmt.Errorf("building %s: %w", name, err)
	}
	return prog, nil
}

// CompileProgram compiles a vertex and a fragment stage and links them.
// Stage objects are released whether or not linking succeeds.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	stages := []stage{
		{kind: gl.VERTEX_SHADER, label: "vertex", source: vertexSrc},
		{kind: gl.FRAGMENT_SHADER, label: "fragment", source: fragmentSrc},
	}

	ids := make([]uint32, 0, len(stages))
	defer func() {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
	}()
	for _, s := range stages {
		id, err := s.compile()
		if err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}

	prog := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(prog, id)
	}
	gl.LinkProgram(prog)

	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(func(n *int32) { gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, n) },
			func(n int32, buf *uint8) { gl.GetProgramInfoLog(prog, n, nil, buf) })
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: %s", ErrLink, msg)
	}
	for _, id := range ids {
		gl.DetachShader(prog, id)
	}
	return prog, nil
}

func (s stage) compile() (uint32, error) {
	id := gl.CreateShader(s.kind)
	src, free := gl.Strs(s.source + "\x00")
	gl.ShaderSource(id, 1, src, nil)
	free()
	gl.CompileShader(id)

	var ok int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(func(n *int32) { gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, n) },
			func(n int32, buf *uint8) { gl.GetShaderInfoLog(id, n, nil, buf) })
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%w: %s stage: %s", ErrCompile, s.label, msg)
	}
	return id, nil
}

// infoLog reads a driver log through the given length and fetch calls.
func infoLog(length func(*int32), fetch func(int32, *uint8)) string {
	var n int32
	length(&n)
	if n <= 0 {
		return "(no log)"
	}
	buf := make([]byte, n+1)
	fetch(n, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n ")
}

// UniformLocation returns the location of an active uniform, or -1.
func UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
