package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/payload"
	"go.uber.org/zap"
	"time"
)

var (
	// ErrInvalidRepeatCount is returned when a test is asked to run zero iterations
	ErrInvalidRepeatCount = errors.New("repeat count must be at least 1")
	// ErrRoundTripMismatch is returned when a loaded payload differs from the saved one
	ErrRoundTripMismatch = errors.New("round trip mismatch")
	// ErrUnstableSize is returned when saving the same payload yields different sizes
	ErrUnstableSize = errors.New("encoded size changed between iterations")
)

// DefaultNumAverages is the number of iterations of a test
const DefaultNumAverages = 10

// Options controls a single test
type Options struct {
	// NumAverages is the number of iterations, must be at least 1
	NumAverages int
	// Validate compares every loaded payload with the original and every
	// encoded size with the first one
	Validate bool
	// Policy decides how floats are compared during validation
	Policy payload.FloatPolicy
	// Resolution truncates every timing sample, zero keeps full precision
	Resolution time.Duration
	// Clock replaces time.Now
	Clock func() time.Time
	// Logger receives one debug entry per save and load
	Logger *zap.Logger
}

// DefaultOptions returns the options of a test without any flags
func DefaultOptions() Options {
	return Options{NumAverages: DefaultNumAverages}
}

// measurement accumulates the samples of one archive
type measurement struct {
	archive archive.IArchive
	save    *sampler
	load    *sampler
	size    int
}

// Run times pair.Baseline and pair.Candidate saving and loading data and
// returns the resulting report. Archive errors abort the test.
func Run(ctx context.Context, name string, data payload.Payload, pair archive.Pair, opts Options) (*Report, error) {
	if opts.NumAverages < 1 {
		return nil, fmt.Errorf("test %q: %w (got %d)", name, ErrInvalidRepeatCount, opts.NumAverages)
	}
	if data == nil {
		return nil, fmt.Errorf("test %q: no payload", name)
	}
	if pair.Baseline == nil || pair.Candidate == nil {
		return nil, fmt.Errorf("test %q: archive pair is incomplete", name)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger.With(zap.String("test", name))

	baseline := &measurement{
		archive: pair.Baseline,
		save:    newSampler(opts.NumAverages),
		load:    newSampler(opts.NumAverages),
	}
	candidate := &measurement{
		archive: pair.Candidate,
		save:    newSampler(opts.NumAverages),
		load:    newSampler(opts.NumAverages),
	}

	for i := 0; i < opts.NumAverages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("test %q: %w", name, err)
		}
		for _, m := range []*measurement{baseline, candidate} {
			if err := m.iterate(i, data, opts, log); err != nil {
				return nil, fmt.Errorf("test %q: %w", name, err)
			}
		}
	}

	report := &Report{
		Name:       name,
		Kind:       data.Kind().String(),
		Elements:   data.Len(),
		Iterations: opts.NumAverages,
		Validated:  opts.Validate,
		Baseline:   baseline.result(opts.NumAverages),
		Candidate:  candidate.result(opts.NumAverages),
	}
	applyRatios(&report.Baseline, report.Baseline)
	applyRatios(&report.Candidate, report.Baseline)

	log.Info("test finished",
		zap.String("baseline", report.Baseline.Archive),
		zap.String("candidate", report.Candidate.Archive),
		zap.Int("elements", report.Elements))
	return report, nil
}

// iterate performs one save and one load and records both samples
func (m *measurement) iterate(i int, data payload.Payload, opts Options, log *zap.Logger) error {
	var buf bytes.Buffer

	start := opts.Clock()
	if err := m.archive.Save(&buf, data); err != nil {
		return fmt.Errorf("%s save: %w", m.archive.Name(), err)
	}
	saveTime := truncate(opts.Clock().Sub(start), opts.Resolution)
	m.save.add(saveTime)

	size := buf.Len()
	if i == 0 {
		m.size = size
	} else if opts.Validate && size != m.size {
		return fmt.Errorf("%s: %w: %d bytes in iteration %d, %d bytes in iteration 1",
			m.archive.Name(), ErrUnstableSize, size, i+1, m.size)
	}

	out := data.Empty()
	start = opts.Clock()
	if err := m.archive.Load(&buf, out); err != nil {
		return fmt.Errorf("%s load: %w", m.archive.Name(), err)
	}
	loadTime := truncate(opts.Clock().Sub(start), opts.Resolution)
	m.load.add(loadTime)

	if opts.Validate {
		if err := payload.Compare(data, out, opts.Policy); err != nil {
			return fmt.Errorf("%s: %w: %v", m.archive.Name(), ErrRoundTripMismatch, err)
		}
	}

	log.Debug("iteration",
		zap.String("archive", m.archive.Name()),
		zap.Int("iteration", i+1),
		zap.Duration("save", saveTime),
		zap.Duration("load", loadTime),
		zap.Int("size", size))
	return nil
}

func (m *measurement) result(n int) Result {
	saveTotal := toMillis(float64(m.save.total))
	loadTotal := toMillis(float64(m.load.total))
	return Result{
		Archive:   m.archive.Name(),
		SaveAvg:   saveTotal / float64(n),
		SaveTotal: saveTotal,
		LoadAvg:   loadTotal / float64(n),
		LoadTotal: loadTotal,
		Size:      m.size,
		SaveStats: m.save.stats(),
		LoadStats: m.load.stats(),
	}
}

// applyRatios sets the ratios of r relative to base
func applyRatios(r *Result, base Result) {
	r.SaveRatio = ratio(r.SaveAvg, base.SaveAvg)
	r.LoadRatio = ratio(r.LoadAvg, base.LoadAvg)
	r.SizeRatio = ratio(float64(r.Size), float64(base.Size))
}

func truncate(d, resolution time.Duration) time.Duration {
	if resolution <= 0 {
		return d
	}
	return d.Truncate(resolution)
}
