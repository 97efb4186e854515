package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/entitlement"
	"github.com/sells-group/coronalert/internal/store"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

// newService builds the alert service from the API settings.
func newService(c *config.Config) *alert.Service {
	opts := []covidapi.Option{
		covidapi.WithHost(c.API.Host),
		covidapi.WithAPIKey(c.API.Key),
		covidapi.WithTimeout(c.API.Timeout()),
	}
	if c.API.BaseURL != "" {
		opts = append(opts, covidapi.WithBaseURL(c.API.BaseURL))
	}
	if c.API.RateLimit > 0 {
		opts = append(opts, covidapi.WithRateLimit(c.API.RateLimit))
	}
	return alert.NewService(covidapi.NewClient(opts...))
}

// openGate opens the entitlement store and loads the gate. The caller closes
// the returned store.
func openGate(ctx context.Context, c *config.Config) (*store.SQLiteStore, *entitlement.StoreGate, error) {
	st, err := store.NewSQLite(c.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}
	gate, err := entitlement.New(ctx, st)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, eris.Wrap(err, "open entitlement gate")
	}
	return st, gate, nil
}
