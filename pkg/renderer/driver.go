// Package renderer implements the Monte Carlo driver (C8): for each pixel
// of a scan, positions the sample, launches rays through the source sampler
// and propagator, and reduces per-ray outcomes into a scatter-count
// histogram. Grounded directly on the teacher's renderer.WorkerPool/Worker
// (pkg/renderer/worker_pool.go): pixels replace tiles as the unit of work,
// PixelTask/PixelResult replace TileTask/TileResult, and the reduction
// writes into disjoint cells of a ScanResult exactly as the teacher writes
// into disjoint PixelStats cells.
package renderer

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shem-sim/shem-raytracer/pkg/core"
	"github.com/shem-sim/shem-raytracer/pkg/diag"
	"github.com/shem-sim/shem-raytracer/pkg/rng"
	"github.com/shem-sim/shem-raytracer/pkg/scene"
	"github.com/shem-sim/shem-raytracer/pkg/source"
	"github.com/shem-sim/shem-raytracer/pkg/trace"
)

// PixelTask is one unit of work: trace RayCount (and EffuseCount) rays at
// one sample Placement, corresponding to one pixel of the scan.
type PixelTask struct {
	PixelIndex int
	I, J       int
	Placement  scene.Placement
}

// PixelResult is the reduced outcome of tracing every ray of one PixelTask.
type PixelResult struct {
	PixelIndex  int
	I, J        int
	Counters    []int // length maxScatter; entry k = detections after k+1 scatters
	Killed      int
	Effuse      int
	PerAperture map[int]int
	Diagnostics diag.Counters
}

// Config bundles everything the driver needs beyond the scene and scan
// plan: per-pixel ray counts, the propagator's scatter budget, the seed for
// reproducible per-pixel RNG streams, the source models, and worker count.
type Config struct {
	RayCount     int
	EffuseCount  int
	MaxScatter   int
	Seed         int64
	Source       source.Model
	EffuseSource source.Model // nil if the effuse beam is disabled
	NumWorkers   int
	Logger       core.Logger
}

// ScanResult is the driver's output: binned detection tallies plus
// provenance for correlating a result with its log output (spec.md §6).
type ScanResult struct {
	NX, NZ      int
	MaxScatter  int
	Counters    [][][]int // [maxScatter][nz][nx]
	Killed      [][]int   // [nz][nx]
	Effuse      [][]int   // [nz][nx]
	PerAperture map[int][][]int
	Diagnostics diag.Counters

	RunID    uuid.UUID
	RayCount int
	Elapsed  time.Duration
}

// worker pulls PixelTasks off a shared channel and runs every ray of each
// task, grounded on the teacher's Worker.run loop.
type worker struct {
	id     int
	cfg    Config
	tasks  <-chan PixelTask
	result chan<- PixelResult
	sc     *scene.Scene
	ctx    context.Context
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range w.tasks {
		if w.ctx.Err() != nil {
			continue
		}
		w.result <- w.renderPixel(task)
	}
}

func (w *worker) renderPixel(task PixelTask) PixelResult {
	stream := rng.New(w.cfg.Seed, task.PixelIndex)
	res := PixelResult{
		PixelIndex:  task.PixelIndex,
		I:           task.I,
		J:           task.J,
		Counters:    make([]int, w.cfg.MaxScatter),
		PerAperture: make(map[int]int),
	}

	tcfg := trace.Config{MaxScatter: w.cfg.MaxScatter}

	for k := 0; k < w.cfg.RayCount; k++ {
		pos, dir := w.cfg.Source.Sample(stream)
		outcome := trace.Propagate(core.NewTraceRay(pos, dir), w.sc, task.Placement, tcfg, stream, &res.Diagnostics)
		reduce(&res, outcome, false)
	}

	if w.cfg.EffuseSource != nil {
		for k := 0; k < w.cfg.EffuseCount; k++ {
			pos, dir := w.cfg.EffuseSource.Sample(stream)
			outcome := trace.Propagate(core.NewTraceRay(pos, dir), w.sc, task.Placement, tcfg, stream, &res.Diagnostics)
			reduce(&res, outcome, true)
		}
	}

	return res
}

func reduce(res *PixelResult, outcome trace.Outcome, effuse bool) {
	switch outcome.Reason {
	case trace.Detected:
		if effuse {
			res.Effuse++
		} else if outcome.ScatterCount >= 1 && outcome.ScatterCount <= len(res.Counters) {
			res.Counters[outcome.ScatterCount-1]++
		}
		if outcome.Aperture > 0 {
			res.PerAperture[outcome.Aperture]++
		}
	case trace.Killed:
		res.Killed++
	case trace.Escaped:
		// Escapes are not tallied directly; derivable as RayCount - detected - killed.
	case trace.Dropped:
		// Counted only in Diagnostics.DegenerateDirection, not in any tally.
	}
}

// Run positions the sample once per pixel of plan, traces cfg.RayCount (and
// optional effuse) rays per pixel across a fixed-size worker pool, and
// reduces the results into a ScanResult. ctx is checked once per pixel task
// at task-start; mid-ray cancellation is not supported (spec.md §5).
func Run(ctx context.Context, sc *scene.Scene, plan ScanPlan, cfg Config) ScanResult {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = NewDefaultLogger()
	}

	start := time.Now()
	n := plan.NumPixels()

	tasks := make(chan PixelTask, n)
	results := make(chan PixelResult, n)

	var wg sync.WaitGroup
	for id := 0; id < numWorkers; id++ {
		w := &worker{id: id, cfg: cfg, tasks: tasks, result: results, sc: sc, ctx: ctx}
		wg.Add(1)
		go w.run(&wg)
	}

	go func() {
		for idx := 0; idx < n; idx++ {
			select {
			case <-ctx.Done():
				cfg.Logger.Printf("shemtrace: scan cancelled after %d/%d pixels submitted", idx, n)
				close(tasks)
				return
			default:
			}
			i, j, placement := plan.Pixel(idx)
			tasks <- PixelTask{PixelIndex: idx, I: i, J: j, Placement: placement}
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	nx, nz := plan.NX(), plan.NZ()
	out := newScanResult(nx, nz, cfg.MaxScatter, cfg.RayCount)
	for res := range results {
		mergePixel(&out, res)
	}
	out.Elapsed = time.Since(start)
	return out
}

func newScanResult(nx, nz, maxScatter, rayCount int) ScanResult {
	counters := make([][][]int, maxScatter)
	for k := range counters {
		counters[k] = make([][]int, nz)
		for j := range counters[k] {
			counters[k][j] = make([]int, nx)
		}
	}
	killed := make([][]int, nz)
	effuse := make([][]int, nz)
	for j := 0; j < nz; j++ {
		killed[j] = make([]int, nx)
		effuse[j] = make([]int, nx)
	}
	return ScanResult{
		NX:          nx,
		NZ:          nz,
		MaxScatter:  maxScatter,
		Counters:    counters,
		Killed:      killed,
		Effuse:      effuse,
		PerAperture: make(map[int][][]int),
		RunID:       uuid.New(),
		RayCount:    rayCount,
	}
}

func mergePixel(out *ScanResult, res PixelResult) {
	for k, count := range res.Counters {
		out.Counters[k][res.J][res.I] = count
	}
	out.Killed[res.J][res.I] = res.Killed
	out.Effuse[res.J][res.I] = res.Effuse
	for aperture, count := range res.PerAperture {
		grid, ok := out.PerAperture[aperture]
		if !ok {
			grid = make([][]int, out.NZ)
			for j := range grid {
				grid[j] = make([]int, out.NX)
			}
			out.PerAperture[aperture] = grid
		}
		grid[res.J][res.I] = count
	}
	out.Diagnostics.Add(res.Diagnostics)
}
