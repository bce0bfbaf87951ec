package beatclock

import (
	"testing"
	"time"
)

func TestSnapshotDeterministic(t *testing.T) {
	now := time.Now()
	c := New(120, 4, now)
	c.SetPlaying(true)

	later := now.Add(2500 * time.Millisecond)
	first := c.Snapshot(later)
	second := c.Snapshot(later)
	if first != second {
		t.Fatalf("snapshot not deterministic: %+v vs %+v", first, second)
	}
}

func TestSnapshotAdvancesWithTempo(t *testing.T) {
	now := time.Now()
	c := New(120, 4, now) // one beat every 500ms
	c.SetPlaying(true)

	snap := c.Snapshot(now.Add(1200 * time.Millisecond))
	if snap.Beat != 3 {
		t.Fatalf("Beat = %d, want 3", snap.Beat)
	}
	if snap.BeatWithinBar != 3 {
		t.Fatalf("BeatWithinBar = %d, want 3", snap.BeatWithinBar)
	}
}

func TestSnapshotHoldsWhenNotPlaying(t *testing.T) {
	now := time.Now()
	c := New(120, 4, now)

	snap := c.Snapshot(now.Add(5 * time.Second))
	if snap.Beat != 1 {
		t.Fatalf("Beat = %d, want 1 (anchor) while not playing", snap.Beat)
	}
}

func TestTempoCoercedWhenNonPositive(t *testing.T) {
	now := time.Now()
	c := New(-5, 4, now)
	c.SetPlaying(true)

	snap := c.Snapshot(now.Add(500 * time.Millisecond))
	if snap.BeatIntervalMs != 500.0 {
		t.Fatalf("BeatIntervalMs = %v, want 500 (120bpm default)", snap.BeatIntervalMs)
	}
}

func TestAlignToBeatNumberCoercesZero(t *testing.T) {
	now := time.Now()
	c := New(120, 4, now)
	c.SetPlaying(true)

	c.AlignToBeatNumber(0, 1, now)
	snap := c.Snapshot(now)
	if snap.Beat != 1 {
		t.Fatalf("Beat = %d, want 1 after aligning to 0", snap.Beat)
	}
}

func TestAlignToBeatWithinBar(t *testing.T) {
	now := time.Now()
	c := New(120, 4, now)
	c.SetPlaying(true)

	c.AlignToBeatWithinBar(3, now)
	snap := c.Snapshot(now)
	if snap.BeatWithinBar != 3 {
		t.Fatalf("BeatWithinBar = %d, want 3", snap.BeatWithinBar)
	}
}
