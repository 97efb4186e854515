package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/entitlement"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/proximity"
	"github.com/sells-group/coronalert/internal/session"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

var (
	nearestLat float64
	nearestLon float64
	nearestTop int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Show the risk level for the location nearest to a coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeNetwork); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, gate, err := openGate(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fix, fixErr := fixFromFlags(cmd)
		u, err := resolveNearest(ctx, newService(cfg), gate, filtersFromFlags(cmd.Flags()), fix, fixErr)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case errors.Is(u.Err, session.ErrNoFix):
			_, _ = fmt.Fprintln(out, "No location available.")
			return nil
		case errors.Is(u.Err, proximity.ErrEmptyResultSet):
			_, _ = fmt.Fprintln(out, "No data.")
			return nil
		case u.Err != nil:
			return u.Err
		}

		printSelection(out, *u.Selection, u.Records)
		if nearestTop > 0 {
			_, _ = fmt.Fprintln(out)
			printRanked(out, rankVisible(*fix, *u.Selection, u.Records, nearestTop), u.Records)
		}
		return nil
	},
}

// fixFromFlags returns the fix given on the command line, or the reason
// there is none.
func fixFromFlags(cmd *cobra.Command) (*model.Point, error) {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
		return nil, eris.New("both --lat and --lon are required for a fix")
	}
	if nearestLat < -90 || nearestLat > 90 || nearestLon < -180 || nearestLon > 180 {
		return nil, eris.Errorf("coordinate out of range: %v,%v", nearestLat, nearestLon)
	}
	p := model.NewPoint(nearestLat, nearestLon)
	return &p, nil
}

// resolveNearest runs one session: the fetch and the fix are delivered
// independently and the first update is returned.
func resolveNearest(ctx context.Context, f session.Fetcher, gate entitlement.Gate, filters covidapi.Filters, fix *model.Point, fixErr error) (session.Update, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := session.New(gate)
	go s.Run(ctx)

	if fixErr != nil {
		if err := s.FixFailed(ctx, fixErr); err != nil {
			return session.Update{}, err
		}
	} else if err := s.FixReceived(ctx, *fix); err != nil {
		return session.Update{}, err
	}
	s.StartFetch(ctx, f, filters)

	select {
	case u := <-s.Updates():
		if errors.Is(u.Err, session.ErrNoFix) || u.Err == nil || errors.Is(u.Err, proximity.ErrEmptyResultSet) {
			return u, nil
		}
		return session.Update{}, u.Err
	case <-ctx.Done():
		return session.Update{}, ctx.Err()
	}
}

// rankVisible ranks the records the selection allows, nearest first.
func rankVisible(fix model.Point, sel model.Selection, records []model.LocationRecord, limit int) []proximity.Candidate {
	if !sel.IsRestricted() {
		return proximity.Ranked(fix, records, limit)
	}
	subset := make([]model.LocationRecord, len(sel.Restricted))
	for i, idx := range sel.Restricted {
		subset[i] = records[idx]
	}
	ranked := proximity.Ranked(fix, subset, limit)
	for i := range ranked {
		ranked[i].Index = sel.Restricted[ranked[i].Index]
	}
	return ranked
}

func init() {
	addFilterFlags(nearestCmd)
	nearestCmd.Flags().Float64Var(&nearestLat, "lat", 0, "latitude of the fix")
	nearestCmd.Flags().Float64Var(&nearestLon, "lon", 0, "longitude of the fix")
	nearestCmd.Flags().IntVar(&nearestTop, "top", 0, "also list this many nearest locations")
	rootCmd.AddCommand(nearestCmd)
}
