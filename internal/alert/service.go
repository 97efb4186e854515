// Package alert fetches COVID-19 reports and turns them into classified location records.
package alert

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

// Result is a successful reports fetch. Records and Annotations are index-aligned.
type Result struct {
	Records     []model.LocationRecord     `json:"records"`
	Annotations []model.LocationAnnotation `json:"annotations"`
	FetchedAt   time.Time                  `json:"fetched_at"`
	Filters     covidapi.Filters           `json:"filters"`
}

// AlertsOutcome is delivered once per FetchAlertsAsync call. Seq increases with
// each call issued on the same Service.
type AlertsOutcome struct {
	Seq    uint64
	Result *Result
	Err    error
}

// RegionsOutcome is delivered once per FetchRegionsAsync call.
type RegionsOutcome struct {
	Seq     uint64
	Regions []model.RegionSummary
	Err     error
}

// Snapshot bundles a reports fetch with the regions list. The regions list is
// a lookup aid, so a failed regions fetch is kept in RegionsErr and leaves
// Result usable.
type Snapshot struct {
	Result     *Result
	Regions    []model.RegionSummary
	RegionsErr error
}

// Service is the only network-facing component. It never retries.
type Service struct {
	client covidapi.Client
	log    *zap.Logger
	seq    atomic.Uint64
	now    func() time.Time
}

// NewService wraps a transport client.
func NewService(client covidapi.Client) *Service {
	return &Service{
		client: client,
		log:    zap.L().With(zap.String("component", "alert")),
		now:    time.Now,
	}
}

// FetchAlerts retrieves and decodes the reports matching filters. Failures are
// returned as *FetchError.
func (s *Service) FetchAlerts(ctx context.Context, filters covidapi.Filters) (*Result, error) {
	start := s.now()
	payload, err := s.client.FetchReports(ctx, filters)
	if err != nil {
		fe := classify(err)
		s.log.Warn("fetch alerts failed",
			zap.String("kind", fe.Kind.String()),
			zap.Error(fe.Err),
		)
		return nil, fe
	}

	records, annotations := Decode(payload)
	s.log.Info("fetched alerts",
		zap.Int("entries", len(payload.Data)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return &Result{
		Records:     records,
		Annotations: annotations,
		FetchedAt:   s.now().UTC(),
		Filters:     filters,
	}, nil
}

// FetchRegions retrieves the {iso, name} lookup list.
func (s *Service) FetchRegions(ctx context.Context) ([]model.RegionSummary, error) {
	payload, err := s.client.FetchRegions(ctx)
	if err != nil {
		fe := classify(err)
		s.log.Warn("fetch regions failed",
			zap.String("kind", fe.Kind.String()),
			zap.Error(fe.Err),
		)
		return nil, fe
	}
	regions := DecodeRegions(payload)
	s.log.Info("fetched regions", zap.Int("regions", len(regions)))
	return regions, nil
}

// FetchAlertsAsync runs FetchAlerts in the background. The returned channel
// yields exactly one outcome and is then closed.
func (s *Service) FetchAlertsAsync(ctx context.Context, filters covidapi.Filters) <-chan AlertsOutcome {
	seq := s.seq.Add(1)
	ch := make(chan AlertsOutcome, 1)
	go func() {
		defer close(ch)
		res, err := s.FetchAlerts(ctx, filters)
		ch <- AlertsOutcome{Seq: seq, Result: res, Err: err}
	}()
	return ch
}

// FetchRegionsAsync runs FetchRegions in the background. The returned channel
// yields exactly one outcome and is then closed.
func (s *Service) FetchRegionsAsync(ctx context.Context) <-chan RegionsOutcome {
	seq := s.seq.Add(1)
	ch := make(chan RegionsOutcome, 1)
	go func() {
		defer close(ch)
		regions, err := s.FetchRegions(ctx)
		ch <- RegionsOutcome{Seq: seq, Regions: regions, Err: err}
	}()
	return ch
}

// Snapshot fetches reports and regions concurrently. Only a reports failure
// fails the snapshot; a regions failure is logged and recorded in RegionsErr.
func (s *Service) Snapshot(ctx context.Context, filters covidapi.Filters) (*Snapshot, error) {
	var snap Snapshot
	var g errgroup.Group
	g.Go(func() error {
		res, err := s.FetchAlerts(ctx, filters)
		if err != nil {
			return err
		}
		snap.Result = res
		return nil
	})
	g.Go(func() error {
		regions, err := s.FetchRegions(ctx)
		if err != nil {
			snap.RegionsErr = err
			return nil
		}
		snap.Regions = regions
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if snap.RegionsErr != nil {
		s.log.Warn("snapshot without regions", zap.Error(snap.RegionsErr))
	}
	return &snap, nil
}
