package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/coronalert/internal/model"
)

// SheetName is the name of the single sheet written by XLSX.
const SheetName = "Alerts"

var xlsxHeader = []string{
	"Location", "ISO", "Date", "Total Cases", "Total Deaths", "New Cases", "New Deaths",
	"Risk %", "Risk", "Sub-band", "Fatality Rate", "Latitude", "Longitude",
}

// XLSX writes a one-sheet workbook report of records to path.
func XLSX(records []model.LocationRecord, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, r := range Rows(records) {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Location)
		row.AddCell().SetString(r.ISO)
		row.AddCell().SetString(r.Date)
		row.AddCell().SetInt64(r.TotalCases)
		row.AddCell().SetInt64(r.TotalDeaths)
		row.AddCell().SetInt64(r.NewCases)
		row.AddCell().SetInt64(r.NewDeaths)
		row.AddCell().SetFloat(r.RiskPercent)
		row.AddCell().SetString(string(r.Risk))
		row.AddCell().SetString(string(r.SubBand))
		row.AddCell().SetFloat(r.FatalityRate)
		row.AddCell().SetFloat(r.Latitude)
		row.AddCell().SetFloat(r.Longitude)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
