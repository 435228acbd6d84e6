package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/render/glrender"
	"infinite-terrain/internal/terrain"
	"infinite-terrain/internal/viewer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

var (
	flagConfig = flag.String("config", "", "path to config file")
	flagDebug  = flag.Bool("debug", false, "enable debug logging")
	flagSpeed  = flag.Float64("speed", 0, "override viewer.speed")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	defer closer.Close()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "terrainview:", err)
		closer.Exit(1)
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSpeed > 0 {
		cfg.Viewer.Speed = float32(*flagSpeed)
	}
	fixes := cfg.Sanitize()

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.LogFileConfig(), true); err != nil {
		fmt.Fprintln(os.Stderr, "terrainview: init logger:", err)
		closer.Exit(1)
	}
	closer.Bind(logger.Sync)
	for _, fix := range fixes {
		logger.Warn("config value clamped", zap.String("fix", fix))
	}

	if err := run(cfg); err != nil {
		logger.Error("terrainview failed", zap.Error(err))
		closer.Exit(1)
	}
}

func setupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, "terrainview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}
	glfw.SwapInterval(1)
	return window, nil
}

// run owns the GL thread. GL resources are released by its defers; closer
// only covers what is safe from the signal goroutine.
func run(cfg *config.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Viewer.Width, cfg.Viewer.Height)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	renderer, err := glrender.New()
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer renderer.Close()

	dispatcher := mapgen.NewDispatcher(
		mapgen.NewGenerator(cfg.GeneratorSettings()),
		cfg.MeshSettings(),
		mapgen.DispatcherOptions{Workers: cfg.Dispatch.Workers, Logger: logger.Named("mapgen")},
	)
	defer dispatcher.Close()
	closer.Bind(dispatcher.Close)

	opts := cfg.TerrainOptions()
	opts.Requester = dispatcher
	opts.Backend = renderer
	opts.Logger = logger.Named("terrain")
	manager := terrain.NewManager(opts)
	defer manager.Close()

	maxView := terrain.MaxViewDistance(manager.LODs()) * cfg.Terrain.WorldScale
	renderer.FogDistance = maxView
	fog := renderer.FogColor
	gl.ClearColor(fog.X(), fog.Y(), fog.Z(), 1)

	path := viewer.NewFlyover(cfg.Viewer.Speed, cfg.Viewer.Heading, cfg.Viewer.Altitude)
	limiter := viewer.NewLimiter(cfg.Viewer.TickRate)
	log := logger.Named("view")
	log.Info("viewer started",
		zap.Float32("speed", cfg.Viewer.Speed),
		zap.Float32("max_view", maxView),
		zap.Int("workers", cfg.Dispatch.Workers))

	start := time.Now()
	lastReport := start
	for !window.ShouldClose() {
		profiling.ResetTick()
		t := float32(time.Since(start).Seconds())
		if cfg.Viewer.Duration > 0 && t > cfg.Viewer.Duration {
			break
		}

		eye := path.Position(t)
		manager.Tick(eye)

		fbw, fbh := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbw), int32(fbh))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		aspect := float32(fbw) / float32(max(fbh, 1))
		proj := mgl32.Perspective(mgl32.DegToRad(60), aspect, 10, maxView*1.5)
		renderer.Draw(path.ViewMatrix(t), proj, eye)

		window.SwapBuffers()
		glfw.PollEvents()

		if time.Since(lastReport) >= 2*time.Second {
			lastReport = time.Now()
			st := manager.Stats()
			rs := renderer.Stats()
			log.Info("frame",
				zap.Stringer("viewer_chunk", st.ViewerCoord),
				zap.Int("chunks", st.Chunks),
				zap.Int("visible", st.Visible),
				zap.Int("drawn", rs.Drawn),
				zap.Int("culled", rs.Culled),
				zap.Int("triangles", rs.Triangles),
				zap.String("top", profiling.TopN(3)))
		}
		limiter.Wait()
	}
	log.Info("viewer stopped", zap.Duration("elapsed", time.Since(start)))
	return nil
}
