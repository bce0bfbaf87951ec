package pdjl

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/thejerf/suture/v4"
	"golang.org/x/net/ipv4"

	"github.com/grantHarris/pdjl/internal/wire"
)

const recvBufferSize = 2048

// recvService owns one inbound socket and feeds every successfully-read
// datagram to processPacket. The reference implementation multiplexes all
// three inbound sockets with a single select(2)/poll loop; Go's net
// package has no portable equivalent for arbitrary net.PacketConns, so
// each socket gets its own reader goroutine with a short read deadline
// instead (the same shape the teacher's internal/beacon reader/writer
// services use for the analogous one-socket-per-service problem). The
// socket is wrapped with x/net/ipv4 so the destination address of each
// datagram is available for debug logging (telling a broadcast arrival
// apart from a directed one costs nothing extra once wrapped).
func (s *Session) recvService(conn *net.UDPConn) func(ctx context.Context) error {
	pc := ipv4.NewPacketConn(conn)
	_ = pc.SetControlMessage(ipv4.FlagDst, true)

	return func(ctx context.Context) error {
		buf := make([]byte, recvBufferSize)
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			n, cm, _, err := pc.ReadFrom(buf)
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					continue
				}
				select {
				case <-ctx.Done():
					return nil
				default:
					return err
				}
			}
			if cm != nil {
				s.log.Debugf("recv %d bytes dst=%s", n, cm.Dst)
			}

			data := make([]byte, n)
			copy(data, buf[:n])
			s.processPacket(data, time.Now())
		}
	}
}

// replayService replaces live recv with a reader that re-emits captured
// records with inter-arrival waits reproducing the original timing.
func (s *Session) replayService(ctx context.Context) error {
	var lastTs time.Time
	first := true

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		rec, err := s.replayR.Next()
		if err != nil {
			s.setLastErr(err)
			s.logf("replay stopped: %v", err)
			return suture.ErrTerminateSupervisorTree
		}

		if !first {
			wait := rec.Timestamp.Sub(lastTs)
			if wait > 0 {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil
				}
			}
		}
		first = false
		lastTs = rec.Timestamp

		s.processPacket(rec.Data, time.Now())
	}
}

// beatService wakes roughly every 100ms, matching the documented condvar
// timeout, and sends a beat whenever SendBeats is enabled, the session is
// playing, and the clock's next-beat deadline has arrived.
func (s *Session) beatService(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !s.cfg.SendBeats {
				continue
			}
			s.state.mu.Lock()
			playing := s.state.playing
			s.state.mu.Unlock()
			if !playing {
				continue
			}
			snap := s.state.snapshot(time.Now())
			if time.Now().Before(snap.BeatTime) {
				continue
			}
			s.SendBeat()
		}
	}
}

func (s *Session) statusService(ctx context.Context) error {
	interval := time.Duration(s.cfg.StatusIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.cfg.SendStatus {
				s.SendStatus()
			}
			action := s.master.MaybeRetryMasterRequest(
				time.Now(),
				s.cfg.MasterRequestTimeout,
				s.cfg.MasterRequestRetryInterval,
				s.cfg.MasterRequestMaxRetries,
			)
			s.performMasterAction(action)
		}
	}
}

func (s *Session) announceService(ctx context.Context) error {
	interval := time.Duration(s.cfg.AnnounceIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sendAnnounce()
		}
	}
}

func (s *Session) pruneService(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.DevicePruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			events := s.devices.Prune(time.Now())
			for _, evt := range events {
				s.dispatchRegistryEvent(evt)
			}
		}
	}
}

func (s *Session) sendAnnounce() {
	packet := wire.BuildKeepAlive(wire.KeepAliveInfo{
		DeviceName:   s.cfg.DeviceName,
		DeviceNumber: s.cfg.DeviceNumber,
		DeviceType:   s.cfg.DeviceType,
		MAC:          s.cfg.MACAddress,
		IP:           localBindIP(s.cfg.BindAddress),
	})
	s.sendTo(s.announceConn, s.cfg.BroadcastAddress, wire.PortAnnounce, packet)
}

func localBindIP(bindAddr string) string {
	if bindAddr != "" {
		return bindAddr
	}
	return "0.0.0.0"
}
