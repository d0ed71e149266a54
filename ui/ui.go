package ui

import (
	"strings"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"svc16/engine"
)

// maxStepsPerSync bounds how many instructions Start will execute while
// waiting for a guest to reach SYNC. It's a host safety valve, not part of
// the machine: a guest that never syncs would otherwise hang the window
// forever.
const maxStepsPerSync = 3_000_000

// Options configures the window Start opens. Scale multiplies the fixed
// 256x256 framebuffer to pick an initial window size.
type Options struct {
	Scale           int
	Cursor          bool
	Fullscreen      bool
	LinearFiltering bool
}

// The shader pair for the single textured quad Start ever draws: the fixed
// 256x256 framebuffer, scaled by the viewport. There is exactly one GL
// program in this whole package, so compiling it is inlined into Start
// below rather than factored into a standalone, reusable shader-program
// constructor.
const (
	vertexShader = `
  #version 330

  attribute vec3 position;
  attribute vec2 uv;
  varying vec2 vuv;
  void main(void){
    gl_Position = vec4(position, 1.0);
    vuv = uv;
  }
  ` + "\x00"

	fragmentShader = `
  #version 330

  varying vec2 vuv;
  uniform sampler2D tex;
  void main(void){
    gl_FragColor = texture2D(tex, vuv);
  }
  ` + "\x00"
)

var vertexPosition = []float32{
	1, 1,
	-1, 1,
	-1, -1,
	1, -1,
}
var vertexUV = []float32{
	1, 0,
	0, 0,
	0, 1,
	1, 1,
}

// Start opens a window and runs e until the window is closed. Each frame
// it steps the engine up to maxStepsPerSync times or until the guest
// raises wants_to_sync, whichever comes first, then performs the sync
// handshake with freshly polled input and uploads the resulting screen
// buffer as a texture.
func Start(e *engine.Engine, opts Options) {
	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)

	size := screenSize * opts.Scale
	if size <= 0 {
		size = screenSize
	}

	var monitor *glfw.Monitor
	if opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(size, size, "SVC16", monitor, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	if !opts.Cursor {
		window.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}

	// Compile and link the one shader pair this window ever uses. compile
	// is a closure rather than a package-level helper because nothing else
	// in ui compiles a shader.
	compile := func(code string, shaderType uint32) uint32 {
		shader := gl.CreateShader(shaderType)
		ccode := gl.Str(code)
		gl.ShaderSource(shader, 1, &ccode, nil)
		gl.CompileShader(shader)
		var ok int32
		gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
		if ok == gl.FALSE {
			var length int32
			gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
			log := strings.Repeat("\x00", int(length+1))
			gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
			glog.Fatalf("compile shader: %s", log)
		}
		return shader
	}
	vs := compile(vertexShader, gl.VERTEX_SHADER)
	fs := compile(fragmentShader, gl.FRAGMENT_SHADER)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	var linked int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &linked)
	if linked == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length+1))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
		glog.Fatalf("link shader program: %s", log)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	gl.UseProgram(program)

	filter := int32(gl.NEAREST)
	if opts.LinearFiltering {
		filter = gl.LINEAR
	}

	dest := make([]uint16, engine.MemSize)
	halted := false
	for !window.ShouldClose() {
		time.Sleep(time.Millisecond)

		steps := 0
		for !halted && !e.WantsToSync() && steps < maxStepsPerSync {
			ev, err := e.Step()
			if err != nil {
				glog.Errorf("guest fault, halting: %v", err)
				halted = true
				break
			}
			if ev != nil {
				glog.V(1).Infof("debug: a1=%d @a2=%d @a3=%d", ev.A1, ev.A2, ev.A3)
			}
			steps++
		}

		posCode, keyCode := pollInput(window)
		if err := e.PerformSync(posCode, keyCode, dest); err != nil {
			glog.Fatalf("perform_sync: %v", err)
		}

		uploadTexture(program, screenToImage(dest), filter)
		window.SwapBuffers()
		glfw.PollEvents()
	}
}
