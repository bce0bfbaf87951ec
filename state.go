package pdjl

import (
	"sync"
	"time"

	"github.com/grantHarris/pdjl/internal/beatclock"
)

// localState is the local playback/master view plus the beat clock,
// protected by a single mutex. Tempo, playing, and beat-alignment changes
// broadcast on cond, but no service waits on it: beatService polls on a
// 100ms ticker instead.
type localState struct {
	mu   sync.Mutex
	cond *sync.Cond

	tempoBPM      float64
	pitch         uint32
	playing       bool
	master        bool
	synced        bool
	beatWithinBar uint8

	clock *beatclock.Clock

	lastSentBeat uint32
}

func newLocalState(cfg Config, now time.Time) *localState {
	s := &localState{
		tempoBPM:      cfg.TempoBPM,
		pitch:         neutralPitch,
		beatWithinBar: 1,
		clock:         beatclock.New(cfg.TempoBPM, cfg.BeatsPerBar, now),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

const neutralPitch = 0x100000

// withLock runs fn with the state mutex held; fn must not block or call
// back into the Session.
func (s *localState) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *localState) setTempo(bpm float64) {
	s.mu.Lock()
	s.tempoBPM = bpm
	s.clock.SetTempo(bpm)
	s.lastSentBeat = 0
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *localState) setPitchPercent(percentFn func(uint32) uint32) {
	s.mu.Lock()
	s.pitch = percentFn(s.pitch)
	s.mu.Unlock()
}

func (s *localState) setPlaying(playing bool) {
	s.mu.Lock()
	s.playing = playing
	s.clock.SetPlaying(playing)
	s.lastSentBeat = 0
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *localState) setMaster(master bool) {
	s.mu.Lock()
	s.master = master
	s.mu.Unlock()
}

func (s *localState) setSynced(synced bool) {
	s.mu.Lock()
	s.synced = synced
	s.mu.Unlock()
}

func (s *localState) alignToBeatNumber(beat uint32, beatWithinBar uint8, when time.Time) {
	s.mu.Lock()
	s.clock.AlignToBeatNumber(beat, beatWithinBar, when)
	s.lastSentBeat = 0
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *localState) alignToBeatWithinBar(beatWithinBar uint8, when time.Time) {
	s.mu.Lock()
	s.clock.AlignToBeatWithinBar(beatWithinBar, when)
	s.lastSentBeat = 0
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *localState) snapshot(now time.Time) beatclock.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Snapshot(now)
}
