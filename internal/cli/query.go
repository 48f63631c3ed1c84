package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	event, err := prayer.ParseEvent(args[0])
	if err != nil {
		return err
	}

	// Determine number of days.
	days := 1
	if flagQueryDays != "" {
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	daysList, err := computeDays(s, s.date, days, []string{event.String()})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if days == 1 {
		return printQuerySingle(out, s, daysList[0])
	}
	if FlagJSON {
		return printQueryJSON(out, s, event, daysList)
	}

	// Rich terminal output.
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s Times · %d Days", event, days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.loc.label())
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", event.String()})
	today := prayer.DateOf(s.now)
	for i, dd := range daysList {
		p := dd.Prayers[0]
		tbl.AddRow([]string{dateLabel(dd.Date), prayer.FormatTime(p, s.timeFmt)})
		if p.Estimated {
			tbl.SetNote(estimateNote(s.settings))
		}
		if dd.Date == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONSingle struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Estimated bool   `json:"estimated"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONSingle `json:"days"`
}

func queryEntry(s *session, dd dayData) queryJSONSingle {
	p := dd.Prayers[0]
	return queryJSONSingle{
		Prayer:    strings.ToLower(p.Name),
		Time:      p.Time.Format(s.timeFmt),
		Date:      dd.Date.String(),
		Estimated: p.Estimated,
	}
}

func printQuerySingle(w io.Writer, s *session, dd dayData) error {
	if FlagJSON {
		return writeJSON(w, queryEntry(s, dd))
	}
	p := dd.Prayers[0]
	fmt.Fprintf(w, "%s %s\n", p.Name, prayer.FormatTime(p, s.timeFmt))
	return nil
}

func printQueryJSON(w io.Writer, s *session, event prayer.Event, daysList []dayData) error {
	out := queryJSONMulti{
		Location: jsonLocation(s),
		Prayer:   strings.ToLower(event.String()),
	}
	for _, dd := range daysList {
		out.Days = append(out.Days, queryEntry(s, dd))
	}
	return writeJSON(w, out)
}
