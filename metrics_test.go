package pdjl

import (
	"sync"
	"testing"
)

func TestMetricsSnapshotConsistentUnderConcurrency(t *testing.T) {
	m := newSessionMetrics("CDJ-3000")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.incPacketsSent()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.incParseErrors()
		}
	}()
	wg.Wait()

	snap := m.snapshot()
	if snap.PacketsSent != n {
		t.Fatalf("PacketsSent = %d, want %d", snap.PacketsSent, n)
	}
	if snap.ParseErrors != n {
		t.Fatalf("ParseErrors = %d, want %d", snap.ParseErrors, n)
	}
}
