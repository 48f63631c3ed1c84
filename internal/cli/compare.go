package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/api"
	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

// newAPIClient builds the reference client. Tests point it at httptest.
var newAPIClient = api.NewClient

var (
	flagCompareTolerance time.Duration
	flagCompareMonth     bool
	flagCompareStrict    bool
	flagCompareNoCache   bool
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Cross-check local times against the Al Adhan API",
		Long: "Fetch the Al Adhan times for the same place, date and settings and show how\n" +
			"far the locally computed times are from them. Needs network access; responses\n" +
			"are cached.",
		Args: cobra.NoArgs,
		RunE: runCompare,
	}

	cmd.Flags().DurationVar(&flagCompareTolerance, "tolerance", api.DefaultTolerance, "Largest difference still treated as agreement")
	cmd.Flags().BoolVar(&flagCompareMonth, "month", false, "Compare every day of the month instead of a single day")
	cmd.Flags().BoolVar(&flagCompareStrict, "strict", false, "Exit with an error when any time is outside the tolerance")
	cmd.Flags().BoolVar(&flagCompareNoCache, "no-cache", false, "Always fetch fresh reference times")

	return cmd
}

// referenceQuery builds the API request matching the session's settings.
func referenceQuery(s *session) api.Query {
	q := api.Query{Location: s.loc.Location, Settings: s.settings}
	if s.zone != time.Local {
		q.Timezone = s.zone.String()
	}
	return q
}

// comparedDay is one day of differences.
type comparedDay struct {
	Date        prayer.Date
	Hijri       string
	Differences []api.Difference
}

type compareJSONDiff struct {
	Event     string  `json:"event"`
	Local     string  `json:"local"`
	Reference string  `json:"reference"`
	DeltaMin  float64 `json:"delta_minutes"`
	Estimated bool    `json:"estimated"`
	Within    bool    `json:"within_tolerance"`
}

type compareJSONDay struct {
	Date        string            `json:"date"`
	Hijri       string            `json:"hijri,omitempty"`
	Differences []compareJSONDiff `json:"differences"`
}

type compareJSON struct {
	Location     todayJSONLocation `json:"location"`
	Settings     todayJSONSettings `json:"settings"`
	ToleranceMin float64           `json:"tolerance_minutes"`
	Days         []compareJSONDay  `json:"days"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	if flagCompareTolerance < 0 {
		return fmt.Errorf("invalid --tolerance %s: must not be negative", flagCompareTolerance)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if flagCompareNoCache {
		s.cache = nil
	}

	ctx := cmd.Context()
	var days []comparedDay
	if flagCompareMonth {
		days, err = compareMonth(ctx, s, s.date.Year, s.date.Month)
	} else {
		var day comparedDay
		day, err = compareDay(ctx, s, s.date)
		days = []comparedDay{day}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		err = printCompareJSON(out, s, days)
	} else if flagCompareMonth {
		printCompareMonth(out, s, days)
	} else {
		printCompareDay(out, s, days[0])
	}
	if err != nil {
		return err
	}

	if outside := countOutside(days, flagCompareTolerance); outside > 0 {
		s.logger.Info().Int("outside", outside).Dur("tolerance", flagCompareTolerance).Msg("reference disagreement")
		if flagCompareStrict {
			return fmt.Errorf("%d time(s) differ from the reference by more than %s", outside, flagCompareTolerance)
		}
	}
	return nil
}

// compareDay compares a single date, reading the reference from the cache
// when possible.
func compareDay(ctx context.Context, s *session, date prayer.Date) (comparedDay, error) {
	q := referenceQuery(s)

	resp := loadReference(s, date, q)
	if resp == nil {
		var err error
		resp, err = newAPIClient().FetchTimings(ctx, date, q)
		if err != nil {
			return comparedDay{}, fmt.Errorf("fetching reference times: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.SaveReference(date, q, resp); err != nil {
				s.logger.Debug().Err(err).Msg("could not cache reference times")
			}
		}
	}

	ref, err := resp.Data.Timings.Times(date, resp.Data.Meta.Zone(s.zone))
	if err != nil {
		return comparedDay{}, fmt.Errorf("reference times for %s: %w", date, err)
	}
	return comparedDay{
		Date:        date,
		Hijri:       resp.Data.Date.Hijri.Format(),
		Differences: api.Compare(s.times(date), ref),
	}, nil
}

func loadReference(s *session, date prayer.Date, q api.Query) *api.Response {
	if s.cache == nil {
		return nil
	}
	entry := s.cache.LoadReference(date, q)
	if entry == nil {
		s.logger.Debug().Str("date", date.String()).Msg("reference cache miss")
		return nil
	}
	s.logger.Debug().Str("date", date.String()).Msg("reference cache hit")
	return &api.Response{Data: api.Data{Timings: entry.Timings, Date: entry.DateInfo, Meta: entry.Meta}}
}

// compareMonth compares every day of a month using the calendar endpoint.
func compareMonth(ctx context.Context, s *session, year int, month time.Month) ([]comparedDay, error) {
	q := referenceQuery(s)

	var data []api.Data
	if s.cache != nil {
		if entry := s.cache.LoadCalendar(year, month, q); entry != nil {
			data = entry.Days
		}
	}
	if data == nil {
		resp, err := newAPIClient().FetchCalendar(ctx, year, month, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar for %d-%02d: %w", year, int(month), err)
		}
		data = resp.Data
		if s.cache != nil {
			if err := s.cache.SaveCalendar(year, month, q, resp); err != nil {
				s.logger.Debug().Err(err).Msg("could not cache calendar")
			}
		}
	}

	days := make([]comparedDay, 0, len(data))
	for _, d := range data {
		date, err := d.Date.Gregorian.Day()
		if err != nil {
			return nil, err
		}
		ref, err := d.Timings.Times(date, d.Meta.Zone(s.zone))
		if err != nil {
			return nil, fmt.Errorf("reference times for %s: %w", date, err)
		}
		days = append(days, comparedDay{
			Date:        date,
			Hijri:       d.Date.Hijri.Format(),
			Differences: api.Compare(s.times(date), ref),
		})
	}
	return days, nil
}

func countOutside(days []comparedDay, tol time.Duration) int {
	n := 0
	for _, d := range days {
		for _, diff := range d.Differences {
			if !diff.Within(tol) {
				n++
			}
		}
	}
	return n
}

// formatDelta renders a signed whole-minute difference such as "+2m".
func formatDelta(d time.Duration) string {
	m := int(d.Round(time.Minute).Minutes())
	if m == 0 {
		return "0m"
	}
	return fmt.Sprintf("%+dm", m)
}

func printCompareDay(w io.Writer, s *session, day comparedDay) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Local vs Al Adhan"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.loc.label())
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(day.Date))
	if day.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", day.Hijri)
	}
	fmt.Fprintf(w, "  %s\n", display.Gray(settingsLine(s.settings)))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Event", "Local", "Al Adhan", "Δ"})
	for i, d := range day.Differences {
		local := d.Local.Format(s.timeFmt)
		if d.Estimated {
			local += "*"
			tbl.SetNote(estimateNote(s.settings))
		}
		tbl.AddRow([]string{d.Event.String(), local, d.Reference.In(s.zone).Format(s.timeFmt), formatDelta(d.Delta)})
		if !d.Within(flagCompareTolerance) {
			tbl.MarkRow(i)
		}
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", compareSummary(day.Differences))
	fmt.Fprintln(w)
}

func printCompareMonth(w io.Writer, s *session, days []comparedDay) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Local vs Al Adhan · %s %d", s.date.Month, s.date.Year)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.loc.label())
	fmt.Fprintf(w, "  %s\n", display.Gray(settingsLine(s.settings)))
	fmt.Fprintln(w)

	headers := []string{"Date"}
	for _, e := range prayer.Events() {
		headers = append(headers, e.String())
	}
	tbl := display.NewTable(headers)

	today := prayer.DateOf(s.now)
	var all []api.Difference
	for i, day := range days {
		row := []string{dateLabel(day.Date)}
		outside := false
		for _, d := range day.Differences {
			cell := formatDelta(d.Delta)
			if d.Estimated {
				cell += "*"
				tbl.SetNote(estimateNote(s.settings))
			}
			row = append(row, cell)
			outside = outside || !d.Within(flagCompareTolerance)
		}
		tbl.AddRow(row)
		if outside {
			tbl.MarkRow(i)
		}
		if day.Date == today {
			tbl.SetHighlightRow(i)
		}
		all = append(all, day.Differences...)
	}
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", compareSummary(all))
	fmt.Fprintln(w)
}

// compareSummary is the one-line verdict under a comparison table.
func compareSummary(diffs []api.Difference) string {
	worst := api.MaxDelta(diffs)
	var off []string
	for _, d := range diffs {
		if !d.Within(flagCompareTolerance) {
			off = append(off, d.Event.String())
		}
	}
	if len(off) == 0 {
		return display.Green(fmt.Sprintf("All within %s (largest difference %s)", flagCompareTolerance, worst))
	}
	return display.Yellow(fmt.Sprintf("%d outside %s (largest difference %s): %s",
		len(off), flagCompareTolerance, worst, strings.Join(uniq(off), ", ")))
}

func uniq(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func printCompareJSON(w io.Writer, s *session, days []comparedDay) error {
	out := compareJSON{
		Location:     jsonLocation(s),
		Settings:     jsonSettings(s.settings),
		ToleranceMin: flagCompareTolerance.Minutes(),
	}
	for _, day := range days {
		jd := compareJSONDay{Date: day.Date.String(), Hijri: day.Hijri}
		for _, d := range day.Differences {
			jd.Differences = append(jd.Differences, compareJSONDiff{
				Event:     strings.ToLower(d.Event.String()),
				Local:     d.Local.Format(s.timeFmt),
				Reference: d.Reference.In(s.zone).Format(s.timeFmt),
				DeltaMin:  d.Delta.Minutes(),
				Estimated: d.Estimated,
				Within:    d.Within(flagCompareTolerance),
			})
		}
		out.Days = append(out.Days, jd)
	}
	return writeJSON(w, out)
}
