package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cases holds case counts as reported. NewCases and NewDeaths are signed:
// the source publishes negative deltas when it corrects earlier totals.
type Cases struct {
	TotalCases  int64 `json:"total_cases" yaml:"total_cases"`
	TotalDeaths int64 `json:"total_deaths" yaml:"total_deaths"`
	NewCases    int64 `json:"new_cases" yaml:"new_cases"`
	NewDeaths   int64 `json:"new_deaths" yaml:"new_deaths"`
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands grouping, e.g. 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}

// ParseCount parses a count produced by FormatCount, ignoring grouping separators.
func ParseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "model: parse count %q", s)
	}
	return n, nil
}

// TotalCasesString returns TotalCases with thousands grouping.
func (c Cases) TotalCasesString() string { return FormatCount(c.TotalCases) }

// TotalDeathsString returns TotalDeaths with thousands grouping.
func (c Cases) TotalDeathsString() string { return FormatCount(c.TotalDeaths) }

// NewCasesString returns NewCases with thousands grouping.
func (c Cases) NewCasesString() string { return FormatCount(c.NewCases) }

// NewDeathsString returns NewDeaths with thousands grouping.
func (c Cases) NewDeathsString() string { return FormatCount(c.NewDeaths) }
