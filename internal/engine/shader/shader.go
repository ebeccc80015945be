// Package shader compiles GLSL programs and caches their uniform locations.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// Stage identifies where a program failed to build.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// CompileError carries the driver's info log for a failed stage.
type CompileError struct {
	Program string
	Stage   Stage
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s program: %s: %s", e.Program, e.Stage, e.Log)
}

// Program is a linked shader program.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
	log      *zap.Logger
}

// Compile builds and links a program from vertex and fragment sources.
// name only labels errors and log lines.
func Compile(name, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileStage(name, vertexSrc, gl.VERTEX_SHADER, StageVertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(name, fragmentSrc, gl.FRAGMENT_SHADER, StageFragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &buf[0])
		gl.DeleteProgram(id)
		return nil, &CompileError{Program: name, Stage: StageLink, Log: cleanLog(buf)}
	}

	p := &Program{
		ID:       id,
		name:     name,
		uniforms: make(map[string]int32),
		log:      logger.Named("shader").With(zap.String("program", name)),
	}
	p.log.Debug("program linked", zap.Uint32("id", id))
	return p, nil
}

func compileStage(program, source string, kind uint32, stage Stage) (uint32, error) {
	sh := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetShaderInfoLog(sh, logLen, nil, &buf[0])
		gl.DeleteShader(sh)
		return 0, &CompileError{Program: program, Stage: stage, Log: cleanLog(buf)}
	}
	return sh, nil
}

// cleanLog trims the NUL terminator and trailing whitespace drivers leave in
// info logs.
func cleanLog(buf []byte) string {
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	return strings.TrimSpace(string(buf))
}

// Use makes p the current program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the location of a uniform, or -1 if the program has no
// active uniform of that name. Lookups are cached.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	if loc < 0 {
		p.log.Debug("uniform inactive", zap.String("uniform", name))
	}
	p.uniforms[name] = loc
	return loc
}

// MustUniform is like Uniform but panics when the uniform is missing.
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in %s program", name, p.name))
	}
	return loc
}

// Delete frees the GL program. It is safe to call more than once.
func (p *Program) Delete() {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
	p.uniforms = make(map[string]int32)
}
