package main

import "github.com/sells-group/coronalert/internal/risk"

// fallbackColor is used for sub-bands without an entry, including errors.
const fallbackColor = "#D3D3D3"

// riskColors is the presentation palette, one color per sub-band from green
// through red.
var riskColors = map[risk.SubBand]string{
	risk.SubBandSafe:     "#2E7D32",
	risk.SubBandLow1:     "#7CB342",
	risk.SubBandLow2:     "#9CCC65",
	risk.SubBandLow3:     "#C0CA33",
	risk.SubBandMedium1:  "#FDD835",
	risk.SubBandMedium2:  "#FFB300",
	risk.SubBandMedium3:  "#FB8C00",
	risk.SubBandHigh1:    "#F4511E",
	risk.SubBandHigh2:    "#E53935",
	risk.SubBandHigh3:    "#C62828",
	risk.SubBandCritical: "#7B1FA2",
}

func colorFor(sb risk.SubBand) string {
	if c, ok := riskColors[sb]; ok {
		return c
	}
	return fallbackColor
}
