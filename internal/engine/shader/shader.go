// Package shader builds linked GL programs and resolves their uniforms.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked vertex+fragment pair with its uniform locations.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// New compiles both stages, links them and looks up every named uniform.
// A uniform the linker dropped is an error.
func New(vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	vs, err := compile(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compile(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)
	gl.DetachShader(id, vs)
	gl.DetachShader(id, fs)

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", msg)
	}

	p := &Program{ID: id, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		loc := gl.GetUniformLocation(id, gl.Str(name+"\x00"))
		if loc < 0 {
			gl.DeleteProgram(id)
			return nil, fmt.Errorf("uniform %q not active", name)
		}
		p.uniforms[name] = loc
	}
	return p, nil
}

// Use binds the program for subsequent draws.
func (p *Program) Use() { gl.UseProgram(p.ID) }

// Uniform returns the location resolved by New, or -1 for a name New was
// not given. GL ignores writes to -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Delete releases the program. Safe to call twice.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func compile(kind uint32, src string) (uint32, error) {
	id := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var ok int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return id, nil
}

// infoLog reads a shader or program log through the matching GL getters.
func infoLog(
	id uint32,
	param func(uint32, uint32, *int32),
	read func(uint32, int32, *int32, *uint8),
) string {
	var n int32
	param(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n)
	read(id, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\r\n ")
}
