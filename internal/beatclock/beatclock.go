// Package beatclock implements the tempo-driven monotonic beat counter
// used to schedule outgoing beat packets and to re-align to an observed
// tempo master.
package beatclock

import "time"

const defaultBeatsPerBar = 4
const defaultTempoBPM = 120.0

// Clock holds the anchor and tempo state needed to derive the current beat
// number at any instant. It has no internal locking: callers serialize
// access via their own mutex, matching the session driver's single
// state-mutex discipline.
type Clock struct {
	beatsPerBar int
	tempoBPM    float64
	playing     bool
	anchorTime  time.Time
	anchorBeat  uint32
}

// New creates a Clock anchored at beat 1, time now, with the given tempo
// (coerced to 120 if non-positive) and beats-per-bar (defaulted to 4 if
// non-positive).
func New(tempoBPM float64, beatsPerBar int, now time.Time) *Clock {
	if beatsPerBar <= 0 {
		beatsPerBar = defaultBeatsPerBar
	}
	c := &Clock{
		beatsPerBar: beatsPerBar,
		anchorTime:  now,
		anchorBeat:  1,
	}
	c.SetTempo(tempoBPM)
	return c
}

// SetTempo updates the tempo, coercing non-positive values to 120.
func (c *Clock) SetTempo(bpm float64) {
	if bpm <= 0 {
		bpm = defaultTempoBPM
	}
	c.tempoBPM = bpm
}

// SetPlaying updates the playing flag.
func (c *Clock) SetPlaying(playing bool) {
	c.playing = playing
}

// Playing reports the current playing flag.
func (c *Clock) Playing() bool {
	return c.playing
}

func (c *Clock) beatIntervalMs() float64 {
	return 60000.0 / c.tempoBPM
}

// Snapshot is the beat-clock state at a given instant, as returned by
// Clock.Snapshot.
type Snapshot struct {
	Beat           uint32
	BeatWithinBar  uint8
	BeatIntervalMs float64
	BarIntervalMs  float64
	BeatTime       time.Time
	NextBeatTime   time.Time
}

// Snapshot computes the beat-clock state at now. The result is purely a
// function of (anchor, tempo, now): calling Snapshot repeatedly with the
// same now and no intervening mutation always returns the same beat.
func (c *Clock) Snapshot(now time.Time) Snapshot {
	interval := c.beatIntervalMs()
	bar := interval * float64(c.beatsPerBar)

	if !c.playing {
		return Snapshot{
			Beat:           c.anchorBeat,
			BeatWithinBar:  withinBar(c.anchorBeat, c.beatsPerBar),
			BeatIntervalMs: interval,
			BarIntervalMs:  bar,
			BeatTime:       now,
			NextBeatTime:   now.Add(time.Duration(interval * float64(time.Millisecond))),
		}
	}

	elapsedMs := float64(now.Sub(c.anchorTime)) / float64(time.Millisecond)
	elapsedBeats := int64(elapsedMs / interval)
	if elapsedBeats < 0 {
		elapsedBeats = 0
	}

	beat := c.anchorBeat + uint32(elapsedBeats)
	beatStartMs := elapsedMs - float64(elapsedBeats)*interval
	beatTime := now.Add(-time.Duration(beatStartMs * float64(time.Millisecond)))
	nextBeatTime := beatTime.Add(time.Duration(interval * float64(time.Millisecond)))

	return Snapshot{
		Beat:           beat,
		BeatWithinBar:  withinBar(beat, c.beatsPerBar),
		BeatIntervalMs: interval,
		BarIntervalMs:  bar,
		BeatTime:       beatTime,
		NextBeatTime:   nextBeatTime,
	}
}

func withinBar(beat uint32, beatsPerBar int) uint8 {
	return uint8((beat-1)%uint32(beatsPerBar)) + 1
}

// AlignToBeatNumber replaces the anchor with (beat, when), coercing a beat
// of 0 to 1. When beatWithinBar is in [1, beatsPerBar] it then calls
// AlignToBeatWithinBar, so at when the clock reports beatWithinBar as the
// beat-within-bar; if beat's own phase differs, the reported beat number is
// advanced past beat by up to beatsPerBar-1 to reach that phase.
func (c *Clock) AlignToBeatNumber(beat uint32, beatWithinBar uint8, when time.Time) {
	if beat == 0 {
		beat = 1
	}
	c.anchorTime = when
	c.anchorBeat = beat
	if beatWithinBar >= 1 && beatWithinBar <= uint8(c.beatsPerBar) {
		c.AlignToBeatWithinBar(beatWithinBar, when)
	}
}

// AlignToBeatWithinBar advances the anchor beat by the minimum non-negative
// amount so that the beat reported at when has beat-within-bar equal to
// beatWithinBar, without changing the tempo curve (anchorTime is left
// untouched; only anchorBeat's phase shifts).
func (c *Clock) AlignToBeatWithinBar(beatWithinBar uint8, when time.Time) {
	if beatWithinBar < 1 || beatWithinBar > uint8(c.beatsPerBar) {
		return
	}
	current := c.Snapshot(when).Beat
	currentPhase := withinBar(current, c.beatsPerBar)
	delta := int(beatWithinBar) - int(currentPhase)
	if delta < 0 {
		delta += c.beatsPerBar
	}
	c.anchorBeat += uint32(delta)
}
