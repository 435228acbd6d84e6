package main

import (
	"time"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/mapgen"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/render"
	"infinite-terrain/internal/terrain"
	"infinite-terrain/internal/viewer"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func streamCommand() *cli.Command {
	return &cli.Command{
		Name:  "stream",
		Usage: "fly a scripted viewer over the terrain and log streaming stats",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "ticks", Usage: "number of ticks to run", Value: 600},
			&cli.Float64Flag{Name: "speed", Usage: "override viewer.speed"},
			&cli.Float64Flag{Name: "heading", Usage: "override viewer.heading"},
			&cli.IntFlag{Name: "workers", Usage: "override dispatch.workers"},
			&cli.Float64Flag{Name: "evict", Usage: "override terrain.evict_factor"},
			&cli.BoolFlag{Name: "realtime", Usage: "pace ticks to viewer.tick_rate"},
			&cli.IntFlag{Name: "report-every", Usage: "log stats every n ticks", Value: 60},
		},
		Action: commandStream,
	}
}

func applyStreamFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("speed") {
		cfg.Viewer.Speed = float32(ctx.Float64("speed"))
	}
	if ctx.IsSet("heading") {
		cfg.Viewer.Heading = float32(ctx.Float64("heading"))
	}
	if ctx.IsSet("workers") {
		cfg.Dispatch.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("evict") {
		cfg.Terrain.EvictFactor = float32(ctx.Float64("evict"))
	}
}

func commandStream(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()
	applyStreamFlags(ctx, cfg)
	for _, fix := range cfg.Sanitize() {
		logger.Warn("config value clamped", zap.String("fix", fix))
	}

	log := logger.Named("stream")
	dispatcher := mapgen.NewDispatcher(
		mapgen.NewGenerator(cfg.GeneratorSettings()),
		cfg.MeshSettings(),
		mapgen.DispatcherOptions{Workers: cfg.Dispatch.Workers, Logger: logger.Named("mapgen")},
	)
	defer dispatcher.Close()

	backend := render.NewHeadless()
	opts := cfg.TerrainOptions()
	opts.Requester = dispatcher
	opts.Backend = backend
	opts.Logger = logger.Named("terrain")
	manager := terrain.NewManager(opts)
	defer manager.Close()

	path := viewer.NewFlyover(cfg.Viewer.Speed, cfg.Viewer.Heading, cfg.Viewer.Altitude)
	limiter := viewer.NewLimiter(0)
	if ctx.Bool("realtime") {
		limiter = viewer.NewLimiter(cfg.Viewer.TickRate)
	}
	dt := 1 / float32(cfg.Viewer.TickRate)
	ticks := ctx.Int("ticks")
	every := max(ctx.Int("report-every"), 1)

	log.Info("stream started",
		zap.Int("ticks", ticks),
		zap.Int("workers", cfg.Dispatch.Workers),
		zap.Float32("speed", cfg.Viewer.Speed),
		zap.Float32("heading", cfg.Viewer.Heading))

	start := time.Now()
	for i := range ticks {
		profiling.ResetTick()
		pos := path.Position(float32(i) * dt)
		manager.Tick(pos)

		if (i+1)%every == 0 {
			st := manager.Stats()
			ds := dispatcher.Stats()
			log.Info("tick",
				zap.Int("tick", i+1),
				zap.Stringer("viewer_chunk", st.ViewerCoord),
				zap.Int("chunks", st.Chunks),
				zap.Int("visible", st.Visible),
				zap.Int("awaiting_data", st.AwaitingData),
				zap.Int("meshes_pending", st.MeshesPending),
				zap.Int("meshes_ready", st.MeshesReady),
				zap.Int("evicted", st.Evicted),
				zap.Int("in_flight", ds.InFlight),
				zap.Int("queued", ds.Queued),
				zap.String("top", profiling.TopN(3)))
		}
		limiter.Wait()
	}

	st := manager.Stats()
	hs := backend.Stats()
	log.Info("stream finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chunks", st.Chunks),
		zap.Int("visible", st.Visible),
		zap.Int("updates", st.Updates),
		zap.Int("dropped", st.Dropped),
		zap.Int("meshes_realized", hs.Meshes),
		zap.Int("textures_realized", hs.Textures),
		zap.Int("nodes_destroyed", hs.NodesDestroyed))
	return nil
}
