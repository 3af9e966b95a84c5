package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;

out vec3 vNormal;
out float vHeight;

void main() {
    vNormal = aNormal;
    vHeight = aPosition.y;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec3 vNormal;
in float vHeight;

uniform vec3 uLightDir;
uniform vec3 uLowColor;
uniform vec3 uHighColor;
uniform float uMaxHeight;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, -uLightDir), 0.0);
    float t = uMaxHeight > 0.0 ? clamp(vHeight / uMaxHeight, 0.0, 1.0) : 0.0;
    vec3 base = mix(uLowColor, uHighColor, t);
    FragColor = vec4(base * (0.35 + 0.65 * diffuse), 1.0);
}
`

// program is a linked shader program with its uniform locations.
type program struct {
	id uint32

	locViewProj  int32
	locLightDir  int32
	locLowColor  int32
	locHighColor int32
	locMaxHeight int32
}

func newProgram() (*program, error) {
	vert, err := compile(vertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compile(fragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
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
		msg := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(id, logLen, nil, buf) })
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", msg)
	}

	return &program{
		id:           id,
		locViewProj:  uniform(id, "uViewProj"),
		locLightDir:  uniform(id, "uLightDir"),
		locLowColor:  uniform(id, "uLowColor"),
		locHighColor: uniform(id, "uHighColor"),
		locMaxHeight: uniform(id, "uMaxHeight"),
	}, nil
}

func compile(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		msg := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return shader, nil
}

func infoLog(length int32, read func(*uint8)) string {
	if length <= 0 {
		return "unknown error"
	}
	buf := make([]uint8, length)
	read(&buf[0])
	return gl.GoStr(&buf[0])
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (p *program) release() {
	gl.DeleteProgram(p.id)
}
