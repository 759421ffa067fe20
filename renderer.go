package main

import (
	_ "embed"
	"fmt"
	"log"
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glsnowflake/scene"
)

//go:embed shaders/line.vert
var lineVertexShader string

//go:embed shaders/line.frag
var lineFragmentShader string

var clearColour = mgl32.Vec4{0.02, 0.03, 0.08, 1}

// Renderer draws a RenderState as GL_LINES.
// All methods must be called with the GL context current.
type Renderer struct {
	vao          uint32
	vbo          uint32
	program      uint32
	vertexAttrib uint32

	uniformLocations map[string]int32

	width  int
	height int
}

func NewRenderer(width, height int) (*Renderer, error) {
	err := gl.Init()
	if err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.DebugMessageCallback(glDebugMessage, nil)
	if glDebug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	r := &Renderer{}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	err = r.loadProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, err
	}

	gl.ClearColor(clearColour[0], clearColour[1], clearColour[2], clearColour[3])
	r.Resize(width, height)
	return r, nil
}

func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Draw uploads the mesh if it is flagged and draws one frame.
func (r *Renderer) Draw(state *scene.RenderState) {
	gl.BindVertexArray(r.vao)

	if state.NeedsUpload && len(state.Mesh) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(state.Mesh)*4, gl.Ptr(state.Mesh), gl.DYNAMIC_DRAW)
		state.Uploaded()
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)

	uniforms := state.Uniforms(r.width, r.height)
	r.loadUniforms(&uniforms)

	gl.DrawArrays(gl.LINES, 0, state.VertexCount())
}

func (r *Renderer) Delete() {
	gl.DeleteProgram(r.program)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
}

func (r *Renderer) loadProgram(vertexSource, fragmentSource string) error {
	vertexShader, err := compileShader(vertexSource+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fragmentShader)

	r.program = gl.CreateProgram()
	gl.AttachShader(r.program, vertexShader)
	gl.AttachShader(r.program, fragmentShader)
	gl.BindFragDataLocation(r.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(r.program)

	var status int32
	gl.GetProgramiv(r.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(r.program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(r.program, l, nil, gl.Str(log))
		return fmt.Errorf("failed to link program: %v", log)
	}
	gl.UseProgram(r.program)

	r.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(scene.Uniforms{})
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("uniform")
		r.uniformLocations[name] = gl.GetUniformLocation(r.program, gl.Str(name+"\x00"))
	}

	r.vertexAttrib = uint32(gl.GetAttribLocation(r.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(r.vertexAttrib)
	gl.VertexAttribPointerWithOffset(r.vertexAttrib, 3, gl.FLOAT, false, 3*4, 0)

	return nil
}

// loadUniforms uploads every field of u to the location named by its
// uniform tag.
func (r *Renderer) loadUniforms(u *scene.Uniforms) {
	v := reflect.ValueOf(u).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		loc := r.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]
		if !setUniform(loc, f) {
			log.Printf("unsupported uniform type %v", f.Type())
		}
	}
}

func setUniform(loc int32, f reflect.Value) bool {
	ptr := f.Addr().UnsafePointer()

	switch f.Type() {
	case reflect.TypeOf(mgl32.Vec2{}):
		gl.Uniform2fv(loc, 1, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Vec3{}):
		gl.Uniform3fv(loc, 1, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Vec4{}):
		gl.Uniform4fv(loc, 1, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Mat3{}):
		gl.UniformMatrix3fv(loc, 1, false, (*float32)(ptr))
	case reflect.TypeOf(mgl32.Mat4{}):
		gl.UniformMatrix4fv(loc, 1, false, (*float32)(ptr))
	case reflect.TypeOf(int32(0)):
		gl.Uniform1iv(loc, 1, (*int32)(ptr))
	case reflect.TypeOf(float32(0)):
		gl.Uniform1fv(loc, 1, (*float32)(ptr))
	default:
		return false
	}
	return true
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, log)
	}

	return shader, nil
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	severityStr := "notification"
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		severityStr = "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		severityStr = "medium"
	case gl.DEBUG_SEVERITY_LOW:
		severityStr = "low"
	}

	sourceStr := "other"
	switch source {
	case gl.DEBUG_SOURCE_API:
		sourceStr = "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		sourceStr = "application"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		sourceStr = "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		sourceStr = "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		sourceStr = "windowSystem"
	}

	typeStr := "other"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	}

	log.Printf("gl %v(%v): %v; %v\n", sourceStr, severityStr, typeStr, message)
}
