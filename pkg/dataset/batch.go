package dataset

import (
	"math/rand"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/toolmill/camstrat/pkg/features"
	"github.com/toolmill/camstrat/pkg/mesh"
	"github.com/toolmill/camstrat/pkg/strategy"
)

// Runner labels a batch of meshes in parallel. Each sample is processed
// end-to-end by one worker with its own seeded jitter source, so the output
// for a given base seed is identical regardless of worker count or
// scheduling.
type Runner struct {
	ToolDiameterMM float64
	Material       string
	BaseSeed       int64
	Workers        int
	Log            *zap.Logger
}

// Result is the outcome for one sample. Err is set when the mesh failed to
// load or extract; the sample is skipped, never partially recovered.
type Result struct {
	Index int
	Path  string
	Meta  *MetaRecord
	Err   error
}

// Run processes every mesh path and returns one result per input, in input
// order.
func (r *Runner) Run(paths []string) []Result {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.processSample(i, paths[i], log)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) processSample(index int, path string, log *zap.Logger) Result {
	result := Result{Index: index, Path: path}

	m, err := mesh.Load(path)
	if err != nil {
		log.Warn("skipping sample: mesh load failed",
			zap.String("path", path), zap.Error(err))
		result.Err = err
		return result
	}

	f, stats, err := features.Extract(m)
	if err != nil {
		log.Warn("skipping sample: feature extraction failed",
			zap.String("path", path), zap.Error(err))
		result.Err = err
		return result
	}

	seed := SampleSeed(r.BaseSeed, index)
	label := strategy.Choose(f, stats, strategy.Params{
		ToolDiameterMM: r.ToolDiameterMM,
		Rand:           rand.New(rand.NewSource(seed)),
	})

	result.Meta = BuildMeta(f, label, r.Material, r.ToolDiameterMM, seed)
	log.Debug("labeled sample",
		zap.String("path", path),
		zap.String("strategy", result.Meta.Label.Strategy),
		zap.Float64("angle_deg", result.Meta.Label.AngleDeg),
		zap.Float64("step_over_mm", result.Meta.Label.StepOverMM))
	return result
}
