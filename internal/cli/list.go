package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7), starting today or at --date.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// dayData holds a single day's computed prayers for list/query output.
type dayData struct {
	Date    prayer.Date
	Prayers []prayer.Prayer
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	daysList, err := computeDays(s, s.date, days, s.selection)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, daysList)
	}

	// Rich terminal output.
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times · %d Days", days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.loc.label())
	fmt.Fprintf(out, "  %s\n", display.Gray(settingsLine(s.settings)))
	fmt.Fprintln(out)

	// Build table.
	headers := []string{"Date"}
	headers = append(headers, s.selection...)
	tbl := display.NewTable(headers)

	today := prayer.DateOf(s.now)
	for i, dd := range daysList {
		row := []string{dateLabel(dd.Date)}
		for _, p := range dd.Prayers {
			row = append(row, prayer.FormatTime(p, s.timeFmt))
			if p.Estimated {
				tbl.SetNote(estimateNote(s.settings))
			}
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if dd.Date == today {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// computeDays runs the engine for `days` consecutive days starting at start.
func computeDays(s *session, start prayer.Date, days int, names []string) ([]dayData, error) {
	result := make([]dayData, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDays(i)
		prayers, err := prayer.Select(s.times(d), names)
		if err != nil {
			return nil, err
		}
		result = append(result, dayData{Date: d, Prayers: prayers})
	}
	return result, nil
}

// dateLabel renders a table row label such as "Mon 02 Mar".
func dateLabel(d prayer.Date) string {
	return d.In(time.UTC).Format("Mon 02 Jan")
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Settings todayJSONSettings `json:"settings"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date      string            `json:"date"`
	Timings   map[string]string `json:"timings"`
	Estimated []string          `json:"estimated,omitempty"`
}

func printListJSON(w io.Writer, s *session, daysList []dayData) error {
	out := listJSONOutput{
		Location: jsonLocation(s),
		Settings: jsonSettings(s.settings),
	}

	for _, dd := range daysList {
		timings, estimated := jsonTimings(dd.Prayers, s.timeFmt)
		out.Days = append(out.Days, listJSONDay{
			Date:      dd.Date.String(),
			Timings:   timings,
			Estimated: estimated,
		})
	}

	return writeJSON(w, out)
}
