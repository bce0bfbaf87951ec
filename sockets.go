package pdjl

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/grantHarris/pdjl/internal/wire"
)

// listenConfig sets SO_REUSEADDR and SO_BROADCAST on every socket this
// session opens: reuse so a restarted process can rebind the well-known
// ports immediately, and broadcast because Linux (unlike some BSDs)
// refuses a sendto() targeting a broadcast address on a socket that
// doesn't have it set explicitly.
var listenConfig = net.ListenConfig{
	Control: func(_, _ string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	},
}

// openSockets binds the beat/status/device inbound sockets and an
// ephemeral outbound socket for announces.
func openSockets(bindAddr string) (beat, status, device, announce *net.UDPConn, err error) {
	defer func() {
		if err != nil {
			for _, c := range []*net.UDPConn{beat, status, device, announce} {
				if c != nil {
					c.Close()
				}
			}
		}
	}()

	beat, err = listenUDP(bindAddr, wire.PortBeat)
	if err != nil {
		return beat, status, device, announce, fmt.Errorf("pdjl: bind beat socket: %w", err)
	}

	status, err = listenUDP(bindAddr, wire.PortStatus)
	if err != nil {
		return beat, status, device, announce, fmt.Errorf("pdjl: bind status socket: %w", err)
	}

	device, err = listenUDP(bindAddr, wire.PortAnnounce)
	if err != nil {
		return beat, status, device, announce, fmt.Errorf("pdjl: bind device socket: %w", err)
	}

	announce, err = listenUDP(bindAddr, 0)
	if err != nil {
		return beat, status, device, announce, fmt.Errorf("pdjl: bind announce socket: %w", err)
	}

	return beat, status, device, announce, nil
}

func listenUDP(bindAddr string, port int) (*net.UDPConn, error) {
	pc, err := listenConfig.ListenPacket(context.Background(), "udp4", fmt.Sprintf("%s:%d", orAllInterfaces(bindAddr), port))
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}

func orAllInterfaces(addr string) string {
	if addr == "" {
		return ""
	}
	return addr
}

func sendTo(conn *net.UDPConn, addr string, port int, data []byte) (int, error) {
	udpAddr := &net.UDPAddr{IP: net.ParseIP(addr), Port: port}
	return conn.WriteToUDP(data, udpAddr)
}
