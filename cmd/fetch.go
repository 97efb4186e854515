package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/resilience"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

var (
	fetchFormat  string
	fetchRetries int
	fetchQuery   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and classify the latest reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeNetwork); err != nil {
			return err
		}
		filters := filtersFromFlags(cmd.Flags())

		res, err := fetchWithRetries(cmd.Context(), newService(cfg), filters, fetchRetries)
		if err != nil {
			return err
		}

		records := res.Records
		if fetchQuery != "" {
			records = filterRecords(res, fetchQuery)
		}
		return writeRecords(cmd.OutOrStdout(), fetchFormat, records)
	},
}

// addFilterFlags registers the report filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("iso", "", "ISO country code, e.g. USA")
	f.String("province", "", "province or state name")
	f.String("region", "", "region (country) name")
	f.String("city", "", "city name")
	f.String("date", "", "report date (YYYY-MM-DD)")
	f.String("q", "", "free-text query sent to the API")
}

// filtersFromFlags returns filters for every filter flag the user set.
func filtersFromFlags(fs *pflag.FlagSet) covidapi.Filters {
	get := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetString(name)
		if err != nil {
			return nil
		}
		return &v
	}
	return covidapi.Filters{
		ISO:            get("iso"),
		RegionProvince: get("province"),
		RegionName:     get("region"),
		CityName:       get("city"),
		Date:           get("date"),
		Query:          get("q"),
	}
}

// fetchWithRetries repeats transient failures only when retries > 0.
func fetchWithRetries(ctx context.Context, svc *alert.Service, filters covidapi.Filters, retries int) (*alert.Result, error) {
	if retries <= 0 {
		return svc.FetchAlerts(ctx, filters)
	}
	return resilience.DoVal(ctx, resilience.ForRetries(retries, "reports"), func(ctx context.Context) (*alert.Result, error) {
		return svc.FetchAlerts(ctx, filters)
	})
}

// filterRecords keeps the records whose annotation matches text.
func filterRecords(res *alert.Result, text string) []model.LocationRecord {
	var out []model.LocationRecord
	for i, a := range res.Annotations {
		if len(model.FilterAnnotations([]model.LocationAnnotation{a}, text)) == 1 {
			out = append(out, res.Records[i])
		}
	}
	zap.L().Debug("filtered records", zap.String("search", text), zap.Int("matches", len(out)))
	return out
}

func init() {
	addFilterFlags(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchFormat, "format", formatTable, fmt.Sprintf("output format: %s, %s or %s", formatTable, formatJSON, formatYAML))
	fetchCmd.Flags().IntVar(&fetchRetries, "retries", 0, "retry transient failures this many times")
	fetchCmd.Flags().StringVar(&fetchQuery, "search", "", "only show locations whose name contains this text")
	rootCmd.AddCommand(fetchCmd)
}
