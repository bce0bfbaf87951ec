// Package svcutil adapts context-cancelable functions into suture.Service
// values and builds the suture.Spec used by the session driver's
// supervisor, following the teacher's lib/svcutil package.
package svcutil

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/grantHarris/pdjl/internal/pdjllog"
)

// ServiceWithError is a suture.Service that also exposes the creator name,
// used in log output.
type ServiceWithError interface {
	suture.Service
	fmt.Stringer
}

type asService struct {
	fn      func(ctx context.Context) error
	creator string
}

func (s *asService) Serve(ctx context.Context) error {
	return s.fn(ctx)
}

func (s *asService) String() string {
	return s.creator
}

// AsService wraps fn as a named suture.Service.
func AsService(fn func(ctx context.Context) error, creator string) ServiceWithError {
	return &asService{fn: fn, creator: creator}
}

// FatalErr wraps an error so the supervisor treats it as reason to stop the
// whole tree rather than restart the failing service.
type FatalErr struct {
	Err error
}

func (e *FatalErr) Error() string { return e.Err.Error() }
func (e *FatalErr) Unwrap() error { return e.Err }
func (e *FatalErr) Is(target error) bool {
	return target == suture.ErrTerminateSupervisorTree
}

// NoRestartErr wraps an error so the supervisor terminates the failed
// service without restarting it, but keeps the rest of the tree running.
type NoRestartErr struct {
	Err error
}

func (e *NoRestartErr) Error() string { return e.Err.Error() }
func (e *NoRestartErr) Unwrap() error { return e.Err }
func (e *NoRestartErr) Is(target error) bool {
	return target == suture.ErrDoNotRestart
}

// Spec builds the suture.Spec used for the session's supervisor tree: a
// debug-logging event hook wired to the given logger, with panics passed
// through rather than silently swallowed, since the session's own services
// are never expected to panic in normal operation.
func Spec(log *pdjllog.Logger) suture.Spec {
	return suture.Spec{
		EventHook: func(e suture.Event) {
			log.Debugf("supervisor: %s", e.String())
		},
		PassThroughPanics: true,
	}
}
