package harness

import (
	"bytes"
	"context"
	"errors"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/ValentinKolb/archbench/lib/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

// --------------------------------------------------------------------------
// Test archives
// --------------------------------------------------------------------------

// fakeClock only moves when an archive advances it
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// testArchive wraps a real archive, counts calls and advances a fake clock
type testArchive struct {
	archive.IArchive
	clock     *fakeClock
	saveDelay time.Duration
	loadDelay time.Duration
	saves     int
	loads     int

	// growSize appends one extra byte per save
	growSize bool
	// corrupt changes the loaded payload
	corrupt bool
	// failSave makes every save fail
	failSave error
}

func newTestArchive(clock *fakeClock, delay time.Duration) *testArchive {
	return &testArchive{
		IArchive:  archive.NewBinaryArchive(),
		clock:     clock,
		saveDelay: delay,
		loadDelay: delay,
	}
}

func (a *testArchive) Save(w io.Writer, data payload.Payload) error {
	a.saves++
	if a.clock != nil {
		a.clock.now = a.clock.now.Add(a.saveDelay)
	}
	if a.failSave != nil {
		return a.failSave
	}
	var buf bytes.Buffer
	if err := a.IArchive.Save(&buf, data); err != nil {
		return err
	}
	if a.growSize {
		buf.Write(make([]byte, a.saves))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (a *testArchive) Load(r io.Reader, out payload.Payload) error {
	a.loads++
	if a.clock != nil {
		a.clock.now = a.clock.now.Add(a.loadDelay)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if a.growSize {
		b = b[:len(b)-a.saves]
	}
	if err := a.IArchive.Load(bytes.NewBuffer(b), out); err != nil {
		return err
	}
	if d, ok := out.(*payload.Doubles); ok && a.corrupt && len(*d) > 0 {
		(*d)[0]++
	}
	return nil
}

func doubles(t *testing.T, n int) payload.Payload {
	t.Helper()
	p, err := payload.New(payload.KindDoubles, n, random.New(7))
	require.NoError(t, err)
	return p
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestRunCallCounts(t *testing.T) {
	clock := &fakeClock{}
	baseline := newTestArchive(clock, time.Millisecond)
	candidate := newTestArchive(clock, time.Millisecond)

	opts := DefaultOptions()
	opts.NumAverages = 7
	opts.Clock = clock.Now

	report, err := Run(context.Background(), "counts", doubles(t, 16), archive.Pair{Baseline: baseline, Candidate: candidate}, opts)
	require.NoError(t, err)

	for _, a := range []*testArchive{baseline, candidate} {
		assert.Equal(t, 7, a.saves)
		assert.Equal(t, 7, a.loads)
	}
	assert.Equal(t, 7, report.Iterations)
	assert.EqualValues(t, 7, report.Baseline.SaveStats.Count)
	assert.EqualValues(t, 7, report.Candidate.LoadStats.Count)
}

func TestRunRejectsZeroRepeatCount(t *testing.T) {
	baseline := newTestArchive(nil, 0)
	candidate := newTestArchive(nil, 0)

	opts := DefaultOptions()
	opts.NumAverages = 0

	report, err := Run(context.Background(), "zero", doubles(t, 4), archive.Pair{Baseline: baseline, Candidate: candidate}, opts)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrInvalidRepeatCount)
	assert.Zero(t, baseline.saves)
	assert.Zero(t, candidate.saves)
}

func TestRunRatios(t *testing.T) {
	clock := &fakeClock{}
	baseline := newTestArchive(clock, time.Millisecond)
	candidate := newTestArchive(clock, 2*time.Millisecond)

	opts := DefaultOptions()
	opts.Clock = clock.Now

	report, err := Run(context.Background(), "ratios", doubles(t, 16), archive.Pair{Baseline: baseline, Candidate: candidate}, opts)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, report.Baseline.SaveAvg, 1e-9)
	assert.InDelta(t, 10.0, report.Baseline.SaveTotal, 1e-9)
	assert.InDelta(t, 2.0, report.Candidate.LoadAvg, 1e-9)

	require.NotNil(t, report.Candidate.SaveRatio)
	require.NotNil(t, report.Candidate.LoadRatio)
	require.NotNil(t, report.Candidate.SizeRatio)
	assert.InDelta(t, 2.0, *report.Candidate.SaveRatio, 1e-9)
	assert.InDelta(t, 2.0, *report.Candidate.LoadRatio, 1e-9)
	assert.InDelta(t, 1.0, *report.Candidate.SizeRatio, 1e-9)

	require.NotNil(t, report.Baseline.SaveRatio)
	assert.InDelta(t, 1.0, *report.Baseline.SaveRatio, 1e-9)

	assert.InDelta(t, 2.0, report.Candidate.SaveStats.Mean, 1e-9)
	assert.InDelta(t, 1.0, report.Candidate.SaveStats.MinMaxRatio, 1e-9)
}

func TestRunZeroBaseline(t *testing.T) {
	clock := &fakeClock{}
	baseline := newTestArchive(clock, 0)
	candidate := newTestArchive(clock, time.Millisecond)

	opts := DefaultOptions()
	opts.Clock = clock.Now

	report, err := Run(context.Background(), "zero baseline", doubles(t, 16), archive.Pair{Baseline: baseline, Candidate: candidate}, opts)
	require.NoError(t, err)

	assert.Nil(t, report.Candidate.SaveRatio)
	assert.Nil(t, report.Candidate.LoadRatio)
	assert.Nil(t, report.Baseline.SaveRatio)
	assert.NotNil(t, report.Candidate.SizeRatio)
}

func TestRunResolution(t *testing.T) {
	clock := &fakeClock{}
	baseline := newTestArchive(clock, 1500*time.Microsecond)
	candidate := newTestArchive(clock, 500*time.Microsecond)

	opts := DefaultOptions()
	opts.Clock = clock.Now
	opts.Resolution = time.Millisecond

	report, err := Run(context.Background(), "resolution", doubles(t, 16), archive.Pair{Baseline: baseline, Candidate: candidate}, opts)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, report.Baseline.SaveAvg, 1e-9)
	assert.Zero(t, report.Candidate.SaveAvg)
	require.NotNil(t, report.Candidate.SaveRatio)
	assert.Zero(t, *report.Candidate.SaveRatio)
}

func TestRunUnstableSize(t *testing.T) {
	baseline := newTestArchive(nil, 0)
	candidate := newTestArchive(nil, 0)
	candidate.growSize = true
	pair := archive.Pair{Baseline: baseline, Candidate: candidate}

	opts := DefaultOptions()
	report, err := Run(context.Background(), "unstable", doubles(t, 16), pair, opts)
	require.NoError(t, err)
	// without validation the first size is reported
	assert.Equal(t, report.Baseline.Size+1, report.Candidate.Size)

	opts.Validate = true
	_, err = Run(context.Background(), "unstable", doubles(t, 16), pair, opts)
	assert.ErrorIs(t, err, ErrUnstableSize)
}

func TestRunRoundTripMismatch(t *testing.T) {
	candidate := newTestArchive(nil, 0)
	candidate.corrupt = true
	pair := archive.Pair{Baseline: newTestArchive(nil, 0), Candidate: candidate}

	opts := DefaultOptions()
	_, err := Run(context.Background(), "mismatch", doubles(t, 16), pair, opts)
	require.NoError(t, err)

	opts.Validate = true
	_, err = Run(context.Background(), "mismatch", doubles(t, 16), pair, opts)
	assert.ErrorIs(t, err, ErrRoundTripMismatch)
	// ten loads of the first run, the first load of the second run fails
	assert.Equal(t, 11, candidate.loads)
}

func TestRunArchiveError(t *testing.T) {
	failure := errors.New("disk full")
	baseline := newTestArchive(nil, 0)
	baseline.failSave = failure
	candidate := newTestArchive(nil, 0)

	_, err := Run(context.Background(), "failure", doubles(t, 1), archive.Pair{Baseline: baseline, Candidate: candidate}, DefaultOptions())
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, baseline.saves)
	assert.Zero(t, candidate.saves)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	baseline := newTestArchive(nil, 0)
	_, err := Run(ctx, "cancelled", doubles(t, 1), archive.Pair{Baseline: baseline, Candidate: newTestArchive(nil, 0)}, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, baseline.saves)
}

func TestRunIncompletePair(t *testing.T) {
	_, err := Run(context.Background(), "incomplete", doubles(t, 1), archive.Pair{Baseline: archive.NewGOBArchive()}, DefaultOptions())
	assert.Error(t, err)

	_, err = Run(context.Background(), "no payload", nil, archive.Binary(), DefaultOptions())
	assert.Error(t, err)
}

// --------------------------------------------------------------------------
// Scenarios with the default pair
// --------------------------------------------------------------------------

func TestScenarioDoubles(t *testing.T) {
	p, err := payload.New(payload.KindDoubles, 16, nil)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Validate = true

	report, err := Run(context.Background(), "Vector(double) size 16", p, archive.Binary(), opts)
	require.NoError(t, err)

	assert.Equal(t, "Vector(double) size 16", report.Name)
	assert.Equal(t, 16, report.Elements)
	assert.Equal(t, 10, report.Iterations)
	assert.Equal(t, "protobuf", report.Baseline.Archive)
	assert.Equal(t, "capnp", report.Candidate.Archive)
	assert.Positive(t, report.Baseline.Size)
	assert.Positive(t, report.Candidate.Size)
	assert.EqualValues(t, 10, report.Candidate.SaveStats.Count)
}

func TestScenarioRecordSizeIsDeterministic(t *testing.T) {
	p, err := payload.New(payload.KindRecords, 1, nil)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Validate = true

	first, err := Run(context.Background(), "Vector(Record) size 1", p, archive.Binary(), opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), "Vector(Record) size 1", p, archive.Binary(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Baseline.Size, second.Baseline.Size)
	assert.Equal(t, first.Candidate.Size, second.Candidate.Size)
	assert.Equal(t, first.Candidate.SizeRatio, second.Candidate.SizeRatio)
}

func TestScenarioChildren(t *testing.T) {
	if testing.Short() {
		t.Skip("large payload")
	}

	p, err := payload.New(payload.KindChildren, 65536, nil)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.NumAverages = 1
	opts.Validate = true

	report, err := Run(context.Background(), "Vector(Child) size 65536", p, archive.Binary(), opts)
	require.NoError(t, err)

	// every child carries 1024 floats of 4 bytes
	assert.Greater(t, report.Baseline.Size, 65536*1024*4)
	assert.Greater(t, report.Candidate.Size, 65536*1024*4)
}
