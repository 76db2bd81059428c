package testing

import (
	"bytes"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/ValentinKolb/archbench/lib/random"
	"testing"
)

// RunArchiveBenchmarks runs save and load benchmarks for an archive implementation
func RunArchiveBenchmarks(b *testing.B, name string, factory archive.Factory) {
	for pName, p := range benchmarkPayloads(b) {
		b.Run(name+"/Save/"+pName, func(b *testing.B) {
			benchmarkSave(b, factory(), p)
		})

		b.Run(name+"/Load/"+pName, func(b *testing.B) {
			benchmarkLoad(b, factory(), p)
		})
	}
}

// benchmarkPayloads returns a set of payloads for targeted benchmarking
func benchmarkPayloads(b *testing.B) map[string]payload.Payload {
	payloads := make(map[string]payload.Payload)
	for name, c := range map[string]struct {
		kind payload.Kind
		n    int
	}{
		"Doubles1K":  {payload.KindDoubles, 1024},
		"Bytes1M":    {payload.KindBytes, 1 << 20},
		"Records1K":  {payload.KindRecords, 1024},
		"Children64": {payload.KindChildren, 64},
	} {
		p, err := payload.New(c.kind, c.n, random.New(1))
		if err != nil {
			b.Fatalf("Failed to create payload: %v", err)
		}
		payloads[name] = p
	}
	return payloads
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Save, reports the encoded size
func benchmarkSave(b *testing.B, a archive.IArchive, p payload.Payload) {
	var buf bytes.Buffer
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := a.Save(&buf, p); err != nil {
			b.Fatalf("Failed to save: %v", err)
		}
	}
	b.ReportMetric(float64(buf.Len()), "bytes")
}

// Benchmark for Load
func benchmarkLoad(b *testing.B, a archive.IArchive, p payload.Payload) {
	var buf bytes.Buffer
	if err := a.Save(&buf, p); err != nil {
		b.Fatalf("Failed to save: %v", err)
	}
	data := buf.Bytes()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := a.Load(bytes.NewBuffer(data), p.Empty()); err != nil {
			b.Fatalf("Failed to load: %v", err)
		}
	}
}
