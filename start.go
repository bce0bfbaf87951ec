package pdjl

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/thejerf/suture/v4"

	"github.com/grantHarris/pdjl/internal/capture"
	"github.com/grantHarris/pdjl/internal/svcutil"
)

// Start validates the configuration, opens sockets (or the replay file),
// and launches the session's services (one receiver per inbound socket or a
// single replay reader, plus beat, status, optional announce, and prune)
// under a suture supervisor. It
// returns synchronously once every service is registered; Start fails
// (and tears down anything already opened) on a configuration or
// socket-acquisition error. A Session may be started at most once.
func (s *Session) Start() error {
	s.lifecycle.Lock()
	if s.started {
		s.lifecycle.Unlock()
		return fmt.Errorf("pdjl: session already started")
	}
	s.started = true
	s.lifecycle.Unlock()

	if err := s.cfg.Validate(); err != nil {
		s.setLastErr(err)
		return err
	}

	if s.cfg.ReplayFile != "" {
		f, err := os.Open(s.cfg.ReplayFile)
		if err != nil {
			err = fmt.Errorf("pdjl: open replay file: %w", err)
			s.setLastErr(err)
			return err
		}
		s.replayCl = f
		s.replayR = capture.NewReader(f)
	} else {
		beat, status, device, announce, err := openSockets(s.cfg.BindAddress)
		if err != nil {
			s.setLastErr(err)
			return err
		}
		s.beatConn, s.statusConn, s.deviceConn, s.announceConn = beat, status, device, announce
	}

	if s.cfg.CaptureFile != "" {
		f, err := os.Create(s.cfg.CaptureFile)
		if err != nil {
			s.closeSockets()
			err = fmt.Errorf("pdjl: open capture file: %w", err)
			s.setLastErr(err)
			return err
		}
		s.captureCl = f
		s.captureW = capture.NewWriter(f)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopFn = cancel
	s.done = make(chan struct{})

	s.sup = suture.New("pdjl.session", svcutil.Spec(s.log))

	if s.replayR != nil {
		s.sup.Add(svcutil.AsService(s.replayService, "pdjl.replay"))
	} else {
		s.sup.Add(svcutil.AsService(s.recvService(s.beatConn), "pdjl.recv.beat"))
		s.sup.Add(svcutil.AsService(s.recvService(s.statusConn), "pdjl.recv.status"))
		s.sup.Add(svcutil.AsService(s.recvService(s.deviceConn), "pdjl.recv.device"))
	}

	s.sup.Add(svcutil.AsService(s.beatService, "pdjl.beat"))
	s.sup.Add(svcutil.AsService(s.statusService, "pdjl.status"))
	if s.cfg.SendAnnounces {
		s.sup.Add(svcutil.AsService(s.announceService, "pdjl.announce"))
	}
	s.sup.Add(svcutil.AsService(s.pruneService, "pdjl.prune"))

	go func() {
		s.sup.Serve(ctx)
		close(s.done)
	}()

	return nil
}

// Stop cancels every registered service's context and blocks until all of
// them have returned, then closes sockets and capture/replay files. After
// Stop returns, no callbacks fire. A Session may be stopped at most once;
// subsequent calls are no-ops.
func (s *Session) Stop() {
	s.lifecycle.Lock()
	if s.stopped || s.stopFn == nil {
		s.lifecycle.Unlock()
		return
	}
	s.stopped = true
	stopFn := s.stopFn
	done := s.done
	s.lifecycle.Unlock()

	stopFn()
	if done != nil {
		<-done
	}

	s.closeSockets()

	if s.captureCl != nil {
		s.captureCl.Close()
	}
	if s.replayCl != nil {
		s.replayCl.Close()
	}
}

func (s *Session) closeSockets() {
	for _, c := range []*net.UDPConn{s.beatConn, s.statusConn, s.deviceConn, s.announceConn} {
		if c != nil {
			c.Close()
		}
	}
}
