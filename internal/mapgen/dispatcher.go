package mapgen

import (
	"errors"
	"runtime"
	"sync/atomic"

	"infinite-terrain/internal/logger"
	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/profiling"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// MeshSettings are the mesh builder inputs shared by every request.
type MeshSettings struct {
	HeightMultiplier float64
	HeightCurve      meshing.HeightCurve
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// Workers caps concurrent generation jobs. <= 0 means runtime.NumCPU().
	Workers int
	Logger  *zap.Logger
}

// Dispatcher runs map and mesh generation on a bounded worker pool and hands
// the results back through Drain, which the owner calls once per tick from
// its own goroutine. Every accepted request delivers exactly once.
type Dispatcher struct {
	gen  *Generator
	mesh MeshSettings
	pool pond.Pool
	log  *zap.Logger

	mapResults  resultQueue[*MapData]
	meshResults resultQueue[*meshing.MeshData]

	inFlight atomic.Int64
	closed   atomic.Bool
}

// NewDispatcher starts a worker pool for gen.
func NewDispatcher(gen *Generator, mesh MeshSettings, opts DispatcherOptions) *Dispatcher {
	workers := opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	d := &Dispatcher{
		gen:  gen,
		mesh: mesh,
		pool: pond.NewPool(workers),
		log:  logger.Or(opts.Logger, "mapgen"),
	}
	d.log.Debug("dispatcher started", zap.Int("workers", workers))
	return d
}

// RequestMapData schedules generation of the chunk centred at center.
// It never blocks; onComplete runs during a later Drain.
func (d *Dispatcher) RequestMapData(center mgl32.Vec2, onComplete func(*MapData)) {
	d.submit("map", func() {
		data := d.gen.Generate(center)
		d.mapResults.push(onComplete, data)
	})
}

// RequestMeshData schedules mesh construction for data at the given level of
// detail. onComplete runs during a later Drain.
func (d *Dispatcher) RequestMeshData(data *MapData, lod int, onComplete func(*meshing.MeshData)) {
	d.submit("mesh", func() {
		mesh := meshing.BuildTerrainMesh(data.Height, d.mesh.HeightMultiplier, d.mesh.HeightCurve, lod)
		d.meshResults.push(onComplete, mesh)
	})
}

func (d *Dispatcher) submit(kind string, job func()) {
	if d.closed.Load() {
		d.log.Warn("request after close dropped", zap.String("kind", kind))
		return
	}
	d.inFlight.Add(1)
	task := d.pool.Submit(func() {
		defer d.inFlight.Add(-1)
		defer func() {
			// the request never delivers; its chunk keeps waiting
			if r := recover(); r != nil {
				d.log.Error("generation job panicked", zap.String("kind", kind), zap.Any("panic", r))
			}
		}()
		job()
	})

	// a Close racing the check above leaves pond's already failed task
	select {
	case <-task.Done():
		if errors.Is(task.Wait(), pond.ErrPoolStopped) {
			d.inFlight.Add(-1)
			d.log.Warn("request after close dropped", zap.String("kind", kind))
		}
	default:
	}
}

// Drain runs the callbacks of every result queued when it was called, map
// results first, then mesh results. Call it from the consumer goroutine only.
func (d *Dispatcher) Drain() int {
	defer profiling.Track("mapgen.Drain")()
	n := d.mapResults.drain()
	n += d.meshResults.drain()
	if n > 0 {
		d.log.Debug("drained generation results", zap.Int("count", n))
	}
	return n
}

// InFlight returns the number of accepted jobs that have not finished yet.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// Queued returns the number of results waiting for Drain.
func (d *Dispatcher) Queued() int {
	return d.mapResults.len() + d.meshResults.len()
}

// Stats reports pool activity.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		InFlight:       d.InFlight(),
		Queued:         d.Queued(),
		RunningWorkers: int(d.pool.RunningWorkers()),
		WaitingTasks:   int(d.pool.WaitingTasks()),
	}
}

// DispatcherStats is a point-in-time view of dispatcher load.
type DispatcherStats struct {
	InFlight       int
	Queued         int
	RunningWorkers int
	WaitingTasks   int
}

// Close rejects new requests and waits for running jobs. Results they
// produce stay queued for a final Drain.
func (d *Dispatcher) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.pool.StopAndWait()
	d.log.Debug("dispatcher stopped", zap.Int("queued", d.Queued()))
}
