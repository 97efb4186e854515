package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/coronalert/internal/export"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/proximity"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func writeRecords(out io.Writer, format string, records []model.LocationRecord) error {
	switch format {
	case formatTable:
		printRecordsTable(out, records)
		return nil
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(export.Rows(records)), "encode json")
	case formatYAML:
		return export.YAML(out, records)
	default:
		return eris.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func printRecordsTable(out io.Writer, records []model.LocationRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, "No data.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tLOCATION\tDATE\tTOTAL\tNEW\tDEATHS\tRISK %\tRISK\tCOLOR")
	_, _ = fmt.Fprintln(w, "-\t--------\t----\t-----\t---\t------\t------\t----\t-----")
	for i := range records {
		printRecordRow(w, i, records[i])
	}
	_ = w.Flush()
}

func printRecordRow(w io.Writer, i int, r model.LocationRecord) {
	c := r.Cases()
	level := r.RiskLevel()
	_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
		i, r.LocationName(), r.DateString,
		c.TotalCasesString(), c.NewCasesString(), c.TotalDeathsString(),
		r.RiskRatePercent(), level.Label, colorFor(level.SubBand),
	)
}

func printRegionsTable(out io.Writer, regions []model.RegionSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ISO\tNAME")
	_, _ = fmt.Fprintln(w, "---\t----")
	for _, r := range regions {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", r.ISO, r.Name)
	}
	_ = w.Flush()
}

func printSelection(out io.Writer, sel model.Selection, records []model.LocationRecord) {
	r := records[sel.VisibleIndex()]
	c := r.Cases()
	level := r.RiskLevel()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Location:\t%s\n", r.LocationName())
	_, _ = fmt.Fprintf(w, "Date:\t%s\n", r.DateFormatted())
	_, _ = fmt.Fprintf(w, "Risk:\t%s (%s, %.2f%%)\n", level.Label, level.SubBand, r.RiskRatePercent())
	_, _ = fmt.Fprintf(w, "Today's cases:\t%s\n", c.NewCasesString())
	_, _ = fmt.Fprintf(w, "Today's deaths:\t%s\n", c.NewDeathsString())
	_, _ = fmt.Fprintf(w, "Total cases:\t%s\n", c.TotalCasesString())
	_, _ = fmt.Fprintf(w, "Total deaths:\t%s\n", c.TotalDeathsString())
	if sel.IsRestricted() {
		_, _ = fmt.Fprintf(w, "Access:\tfree region only (%d locations), run `coronalert unlock` for all\n", len(sel.Restricted))
	} else {
		_, _ = fmt.Fprintln(w, "Access:\tall locations")
	}
	_ = w.Flush()
}

func printRanked(out io.Writer, ranked []proximity.Candidate, records []model.LocationRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tLOCATION\tDISTANCE KM\tRISK")
	_, _ = fmt.Fprintln(w, "----\t--------\t-----------\t----")
	for i, c := range ranked {
		r := records[c.Index]
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\n", i+1, r.LocationName(), c.Meters/1000, r.RiskLevel().Label)
	}
	_ = w.Flush()
}
