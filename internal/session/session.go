// Package session sequences fetch results and location fixes for one user and
// emits a resolved selection whenever both are available.
package session

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/internal/entitlement"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/proximity"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

// ErrNoFix is reported when the location collaborator denied or failed a fix.
var ErrNoFix = eris.New("session: no location fix available")

// Update is emitted once per resolution attempt that has something to say.
// Selection is nil whenever Err is set.
type Update struct {
	Seq         uint64
	Selection   *model.Selection
	Records     []model.LocationRecord
	Annotations []model.LocationAnnotation
	Err         error
}

// Fetcher starts an asynchronous reports fetch.
type Fetcher interface {
	FetchAlertsAsync(ctx context.Context, filters covidapi.Filters) <-chan alert.AlertsOutcome
}

type fixEvent struct {
	point model.Point
	err   error
}

// Session owns the current records, the last fix and the entitlement gate.
// All state is confined to the goroutine running Run.
type Session struct {
	gate    entitlement.Gate
	fetches chan alert.AlertsOutcome
	fixes   chan fixEvent
	updates chan Update
	log     *zap.Logger

	// owned by Run
	result *alert.Result
	seq    uint64
	fix    *model.Point
}

// New creates a session. Call Run to start processing events.
func New(gate entitlement.Gate) *Session {
	return &Session{
		gate:    gate,
		fetches: make(chan alert.AlertsOutcome),
		fixes:   make(chan fixEvent),
		updates: make(chan Update, 16),
		log:     zap.L().With(zap.String("component", "session")),
	}
}

// Updates delivers resolution results. It is closed when Run returns.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// FetchCompleted hands a fetch outcome to the session.
func (s *Session) FetchCompleted(ctx context.Context, out alert.AlertsOutcome) error {
	select {
	case s.fetches <- out:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FixReceived hands a location fix to the session.
func (s *Session) FixReceived(ctx context.Context, p model.Point) error {
	return s.sendFix(ctx, fixEvent{point: p})
}

// FixFailed reports that no fix is available. A nil cause is treated as a denial.
func (s *Session) FixFailed(ctx context.Context, cause error) error {
	if cause == nil {
		cause = eris.New("location access denied")
	}
	return s.sendFix(ctx, fixEvent{err: cause})
}

func (s *Session) sendFix(ctx context.Context, ev fixEvent) error {
	select {
	case s.fixes <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartFetch issues a fetch and forwards its outcome to the session when it lands.
func (s *Session) StartFetch(ctx context.Context, f Fetcher, filters covidapi.Filters) {
	ch := f.FetchAlertsAsync(ctx, filters)
	go func() {
		for out := range ch {
			if err := s.FetchCompleted(ctx, out); err != nil {
				s.log.Debug("dropping fetch outcome after shutdown", zap.Uint64("seq", out.Seq))
			}
		}
	}()
}

// Run processes events until ctx is done.
func (s *Session) Run(ctx context.Context) {
	defer close(s.updates)
	for {
		select {
		case <-ctx.Done():
			return
		case out := <-s.fetches:
			s.onFetch(ctx, out)
		case ev := <-s.fixes:
			s.onFix(ctx, ev)
		}
	}
}

func (s *Session) onFetch(ctx context.Context, out alert.AlertsOutcome) {
	if out.Err != nil {
		s.log.Warn("fetch failed", zap.Uint64("seq", out.Seq), zap.Error(out.Err))
		s.emit(ctx, Update{Seq: out.Seq, Err: out.Err})
		return
	}

	if out.Seq < s.seq {
		// No cancellation: the latest arrival replaces the records even if it
		// was issued earlier.
		s.log.Warn("fetch completed out of order",
			zap.Uint64("seq", out.Seq),
			zap.Uint64("latest_seq", s.seq),
		)
	} else {
		s.seq = out.Seq
	}
	s.result = out.Result
	s.attempt(ctx, out.Seq)
}

func (s *Session) onFix(ctx context.Context, ev fixEvent) {
	if ev.err != nil {
		s.fix = nil
		s.log.Info("no location fix", zap.Error(ev.err))
		u := Update{Seq: s.seq, Err: ErrNoFix}
		if s.result != nil {
			u.Records = s.result.Records
			u.Annotations = s.result.Annotations
		}
		s.emit(ctx, u)
		return
	}
	p := ev.point
	s.fix = &p
	s.attempt(ctx, s.seq)
}

// attempt resolves the selection once both records and a fix are present.
func (s *Session) attempt(ctx context.Context, seq uint64) {
	if s.result == nil || s.fix == nil {
		return
	}
	u := Update{
		Seq:         seq,
		Records:     s.result.Records,
		Annotations: s.result.Annotations,
	}
	sel, err := proximity.Resolve(*s.fix, s.result.Records, s.gate.IsEntitled(ctx))
	if err != nil {
		u.Err = err
	} else {
		u.Selection = &sel
	}
	s.emit(ctx, u)
}

func (s *Session) emit(ctx context.Context, u Update) {
	select {
	case s.updates <- u:
	case <-ctx.Done():
	}
}
