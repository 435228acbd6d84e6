package glrender

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/terrain.vert
var terrainVertexShader string

//go:embed shaders/terrain.frag
var terrainFragmentShader string

// shader is a linked program with cached uniform locations.
type shader struct {
	id       uint32
	uniforms map[string]int32
}

func newShader(vertexSrc, fragmentSrc string) (*shader, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &shader{id: program, uniforms: make(map[string]int32)}, nil
}

func (s *shader) use() {
	gl.UseProgram(s.id)
}

func (s *shader) location(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.id, gl.Str(name+"\x00"))
	s.uniforms[name] = loc
	return loc
}

func (s *shader) setInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

func (s *shader) setFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

func (s *shader) setVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(s.location(name), v.X(), v.Y(), v.Z())
}

func (s *shader) setMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

func (s *shader) delete() {
	gl.DeleteProgram(s.id)
}

// compileProgram links a vertex and a fragment stage. The stage objects are
// deleted once linked.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program := gl.CreateProgram()
	stages := []struct {
		kind uint32
		src  string
	}{
		{gl.VERTEX_SHADER, vertexSrc},
		{gl.FRAGMENT_SHADER, fragmentSrc},
	}
	for _, st := range stages {
		id, err := compileStage(st.kind, st.src)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, id)
		defer gl.DeleteShader(id)
	}

	gl.LinkProgram(program)
	if msg, ok := infoLog(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); !ok {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link terrain program: %s", msg)
	}
	return program, nil
}

func compileStage(kind uint32, src string) (uint32, error) {
	id := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	if msg, ok := infoLog(id, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog); !ok {
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile %s stage: %s", stageName(kind), msg)
	}
	return id, nil
}

// infoLog checks a status flag on a shader or program object and returns its
// log when the flag is false.
func infoLog(
	id, status uint32,
	get func(uint32, uint32, *int32),
	read func(uint32, int32, *int32, *uint8),
) (string, bool) {
	var ok int32
	get(id, status, &ok)
	if ok != gl.FALSE {
		return "", true
	}
	var n int32
	get(id, gl.INFO_LOG_LENGTH, &n)
	buf := strings.Repeat("\x00", int(n+1))
	read(id, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00"), false
}

func stageName(kind uint32) string {
	if kind == gl.VERTEX_SHADER {
		return "vertex"
	}
	return "fragment"
}
