package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/export"
	"github.com/sells-group/coronalert/internal/model"
)

var (
	exportGeoJSON string
	exportXLSX    string
	exportSearch  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export map pins as GeoJSON and the records as an XLSX report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportGeoJSON == "" && exportXLSX == "" {
			return eris.New("nothing to export: set --geojson and/or --xlsx")
		}
		if err := cfg.Validate(config.ModeNetwork); err != nil {
			return err
		}

		res, err := newService(cfg).FetchAlerts(cmd.Context(), filtersFromFlags(cmd.Flags()))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if exportGeoJSON != "" {
			annotations := model.FilterAnnotations(res.Annotations, exportSearch)
			data, err := export.GeoJSON(annotations, colorFor)
			if err != nil {
				return err
			}
			if err := os.WriteFile(exportGeoJSON, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", exportGeoJSON)
			}
			zap.L().Info("wrote geojson", zap.String("path", exportGeoJSON), zap.Int("features", len(annotations)))
			_, _ = fmt.Fprintf(out, "Wrote %d features to %s\n", len(annotations), exportGeoJSON)
		}

		if exportXLSX != "" {
			records := res.Records
			if exportSearch != "" {
				records = filterRecords(res, exportSearch)
			}
			if err := export.XLSX(records, exportXLSX); err != nil {
				return err
			}
			zap.L().Info("wrote xlsx", zap.String("path", exportXLSX), zap.Int("rows", len(records)))
			_, _ = fmt.Fprintf(out, "Wrote %d rows to %s\n", len(records), exportXLSX)
		}
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportGeoJSON, "geojson", "", "write a GeoJSON FeatureCollection to this path")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write an XLSX report to this path")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "only export locations whose name contains this text")
	rootCmd.AddCommand(exportCmd)
}
