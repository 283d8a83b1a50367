// Package syncer owns the session identity and drives commit/choice
// round-trips against the story service.
//
// Work is split in three steps so that the network round-trip can run off
// the UI loop while every state mutation stays on it:
//
//	req, err := s.Commit(text)   // UI loop: assigns a sequence number
//	res := s.Send(ctx, req)      // any goroutine: transport only
//	out, err := s.Resolve(res)   // UI loop: applies or discards
//
// Only the most recently issued request is ever applied; responses that
// arrive for older sequence numbers are dropped.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkpad/internal/client"
	"inkpad/internal/diagnostics"
	"inkpad/internal/logger"
	"inkpad/internal/narrative"
	"inkpad/internal/protocol"
	"inkpad/internal/session"
)

// ErrHalted is returned once a fatal error stopped synchronization.
var ErrHalted = errors.New("synchronization halted")

// PreconditionError reports an operation attempted before its requirements
// hold, e.g. a choice without an established session.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// haltedError keeps the original fatal cause reachable.
type haltedError struct {
	cause error
}

func (e haltedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrHalted, e.cause)
}

func (e haltedError) Is(target error) bool { return target == ErrHalted }

func (e haltedError) Unwrap() error { return e.cause }

// Transport performs the raw round-trips. *client.Client implements it.
type Transport interface {
	Commit(ctx context.Context, req protocol.CommitRequest) (protocol.Response, error)
	Choose(ctx context.Context, req protocol.ChooseRequest) (protocol.Response, error)
}

var _ Transport = (*client.Client)(nil)

// Kind of request.
type Kind int

const (
	KindCommit Kind = iota
	KindChoose
)

func (k Kind) String() string {
	if k == KindChoose {
		return "choose"
	}
	return "commit"
}

// Request is an issued, sequence-numbered request.
type Request struct {
	Seq    uint64
	Kind   Kind
	Commit protocol.CommitRequest
	Choose protocol.ChooseRequest
}

// Result is what Send hands back to the UI loop.
type Result struct {
	Request  Request
	Response protocol.Response
	Err      error
	Elapsed  time.Duration
}

// Status summarizes how a Result was handled.
type Status int

const (
	StatusStale Status = iota
	StatusTransportError
	StatusDiagnostics
	StatusRendered
)

func (s Status) String() string {
	switch s {
	case StatusTransportError:
		return "transport_error"
	case StatusDiagnostics:
		return "diagnostics"
	case StatusRendered:
		return "rendered"
	default:
		return "stale"
	}
}

// Outcome reports what Resolve did.
type Outcome struct {
	Status      Status
	Seq         uint64
	Diagnostics int
	Narrative   narrative.Outcome
}

// Options wires a Synchronizer.
type Options struct {
	Transport Transport
	Mapper    *diagnostics.Mapper
	Renderer  *narrative.Renderer
	Notifier  diagnostics.Notifier
	Timeout   time.Duration
	ToastFor  time.Duration
}

// Synchronizer is not safe for concurrent use except for Send.
type Synchronizer struct {
	identity  *session.Identity
	transport Transport
	mapper    *diagnostics.Mapper
	renderer  *narrative.Renderer
	notifier  diagnostics.Notifier
	timeout   time.Duration
	toastFor  time.Duration
	issued    uint64
	resolved  uint64
	halted    error
	log       *logger.LogEntry
}

func New(opts Options) *Synchronizer {
	toastFor := opts.ToastFor
	if toastFor <= 0 {
		toastFor = 1500 * time.Millisecond
	}
	return &Synchronizer{
		identity:  session.NewIdentity(),
		transport: opts.Transport,
		mapper:    opts.Mapper,
		renderer:  opts.Renderer,
		notifier:  opts.Notifier,
		timeout:   opts.Timeout,
		toastFor:  toastFor,
		log:       logger.Named("syncer"),
	}
}

// SessionID returns the established session id, if any.
func (s *Synchronizer) SessionID() (string, bool) {
	return s.identity.ID()
}

// Halted returns the fatal error that stopped synchronization, or nil.
func (s *Synchronizer) Halted() error {
	return s.halted
}

// Pending reports whether the latest issued request is still unresolved.
func (s *Synchronizer) Pending() bool {
	return s.issued != s.resolved
}

// Commit issues a commit of the full buffer text.
func (s *Synchronizer) Commit(text string) (Request, error) {
	if s.halted != nil {
		return Request{}, haltedError{cause: s.halted}
	}
	id, _ := s.identity.ID()
	req := Request{
		Seq:    s.next(),
		Kind:   KindCommit,
		Commit: protocol.CommitRequest{Value: text, UUID: id},
	}
	s.log.WithFields(logger.Fields{"seq": req.Seq, "bytes": len(text)}).Debug("issued commit")
	return req, nil
}

// Choose issues a choice request. It fails without sending anything when no
// session has been established.
func (s *Synchronizer) Choose(index int) (Request, error) {
	if s.halted != nil {
		return Request{}, haltedError{cause: s.halted}
	}
	id, ok := s.identity.ID()
	if !ok {
		err := &PreconditionError{Op: "choose", Err: session.ErrNoSession}
		s.halt(err)
		return Request{}, err
	}
	req := Request{
		Seq:    s.next(),
		Kind:   KindChoose,
		Choose: protocol.ChooseRequest{UUID: id, Index: index},
	}
	s.log.WithFields(logger.Fields{"seq": req.Seq, "index": index}).Debug("issued choice")
	return req, nil
}

func (s *Synchronizer) next() uint64 {
	s.issued++
	return s.issued
}

// Send performs the round-trip. It only reads immutable fields and may run
// on any goroutine.
func (s *Synchronizer) Send(ctx context.Context, req Request) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = client.WithSequence(ctx, req.Seq)

	start := time.Now()
	var (
		resp protocol.Response
		err  error
	)
	switch req.Kind {
	case KindChoose:
		resp, err = s.transport.Choose(ctx, req.Choose)
	default:
		resp, err = s.transport.Commit(ctx, req.Commit)
	}
	return Result{Request: req, Response: resp, Err: err, Elapsed: time.Since(start)}
}

// Resolve applies res unless it is stale. Recoverable failures (transport
// errors, diagnostics) are absorbed; the returned error is always fatal.
func (s *Synchronizer) Resolve(res Result) (Outcome, error) {
	seq := res.Request.Seq
	entry := s.log.WithFields(logger.Fields{"seq": seq, "type": res.Request.Kind.String()})
	if s.halted != nil {
		entry.Debug("dropped response after halt")
		return Outcome{Status: StatusStale, Seq: seq}, haltedError{cause: s.halted}
	}
	if seq != s.issued {
		entry.WithField("latest", s.issued).Info("discarded stale response")
		return Outcome{Status: StatusStale, Seq: seq}, nil
	}
	s.resolved = seq

	if res.Err != nil {
		entry.Warnf("transport error: %v", res.Err)
		s.notify(diagnostics.KindError, transportMessage(res.Err))
		return Outcome{Status: StatusTransportError, Seq: seq}, nil
	}

	resp := res.Response
	if resp.IsDiagnostics() {
		s.mapper.Apply(resp.Diagnostics)
		entry.WithField("count", len(resp.Diagnostics)).Info("parse diagnostics")
		return Outcome{Status: StatusDiagnostics, Seq: seq, Diagnostics: len(resp.Diagnostics)}, nil
	}

	var err error
	if res.Request.Kind == KindChoose {
		err = s.identity.Verify(resp.UUID)
	} else {
		err = s.identity.Adopt(resp.UUID)
	}
	if err != nil {
		entry.WithField("server_uuid", resp.UUID).Errorf("session check failed: %v", err)
		s.halt(err)
		return Outcome{Status: StatusStale, Seq: seq}, err
	}

	s.mapper.Clear()
	if res.Request.Kind == KindCommit {
		// The service restarts the story on every commit.
		s.renderer.Reset()
	}
	nout, err := s.renderer.Apply(*resp.Section)
	if err != nil {
		entry.Warnf("section not rendered: %v", err)
	}
	entry.WithField("state", nout.State.String()).Info("rendered section")
	return Outcome{Status: StatusRendered, Seq: seq, Narrative: nout}, nil
}

// Do sends and resolves synchronously, for headless callers.
func (s *Synchronizer) Do(ctx context.Context, req Request) (Outcome, error) {
	return s.Resolve(s.Send(ctx, req))
}

func (s *Synchronizer) halt(err error) {
	if s.halted == nil {
		s.halted = err
	}
}

func (s *Synchronizer) notify(kind diagnostics.Kind, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(kind, msg, s.toastFor)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "story service timed out"
	}
	var te *client.TransportError
	if errors.As(err, &te) && te.Status != 0 {
		return fmt.Sprintf("story service answered http %d", te.Status)
	}
	return "can not fetch from story service"
}
