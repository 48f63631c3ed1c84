package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	prayers, err := s.selected(s.date)
	if err != nil {
		return err
	}

	// Current and next only make sense for the real today.
	var current, next *prayer.Prayer
	if s.isToday {
		current = prayer.CurrentIn(prayers, s.now)
		next = prayer.NextIn(prayers, s.now)
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, prayers, current, next)
	}

	printTodayRich(out, s, prayers, current, next)
	return nil
}

// settingsLine summarises the calculation settings, e.g. "MWL · Standard Asr · NightMiddle".
func settingsLine(st prayer.Settings) string {
	return fmt.Sprintf("%s · %s Asr · %s", st.Method, st.Asr, st.HighLatitude)
}

// printTodayRich renders the colored terminal output for a day's prayer schedule.
func printTodayRich(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	// Location and date info.
	fmt.Fprintf(w, "  %s\n", s.loc.label())
	fmt.Fprintf(w, "  %s\n", s.zone)
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(s.date))
	fmt.Fprintf(w, "  %s\n", display.Gray(settingsLine(s.settings)))
	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, p := range prayers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	estimated := false
	for _, p := range prayers {
		timeStr := prayer.FormatTime(p, s.timeFmt)
		line := fmt.Sprintf("  %s  %s", padRight(p.Name, maxNameLen), timeStr)
		estimated = estimated || p.Estimated

		switch {
		case current != nil && p.Event == current.Event:
			// Current prayer: dimmed.
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Event == next.Event:
			// Next prayer: accent color + countdown.
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, s.now))
			suffix := fmt.Sprintf("  <- next in %s", remaining)
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if estimated {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Yellow(estimateNote(s.settings)))
	}
	fmt.Fprintln(w)
}

// estimateNote explains the "*" marker.
func estimateNote(st prayer.Settings) string {
	return fmt.Sprintf("* estimated with the %s high latitude rule", st.HighLatitude)
}

// formatGregorianDate returns a formatted Gregorian date string.
func formatGregorianDate(d prayer.Date) string {
	return d.In(time.UTC).Format("Monday 02 January 2006")
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location  todayJSONLocation `json:"location"`
	Date      string            `json:"date"`
	Settings  todayJSONSettings `json:"settings"`
	Timings   map[string]string `json:"timings"`
	Estimated []string          `json:"estimated,omitempty"`
	Current   string            `json:"current,omitempty"`
	Next      *todayJSONNext    `json:"next,omitempty"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

type todayJSONSettings struct {
	Method       string `json:"method"`
	AsrMethod    string `json:"asr_method"`
	HighLatitude string `json:"high_latitude_rule"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func jsonSettings(st prayer.Settings) todayJSONSettings {
	return todayJSONSettings{
		Method:       st.Method.String(),
		AsrMethod:    st.Asr.String(),
		HighLatitude: st.HighLatitude.String(),
	}
}

func jsonLocation(s *session) todayJSONLocation {
	return todayJSONLocation{
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  s.zone.String(),
		Latitude:  s.loc.Latitude,
		Longitude: s.loc.Longitude,
		Source:    string(s.loc.Source),
	}
}

// jsonTimings returns the lower-cased name → clock map plus the names of
// estimated events.
func jsonTimings(prayers []prayer.Prayer, layout string) (map[string]string, []string) {
	timings := make(map[string]string, len(prayers))
	var estimated []string
	for _, p := range prayers {
		name := strings.ToLower(p.Name)
		timings[name] = p.Time.Format(layout)
		if p.Estimated {
			estimated = append(estimated, name)
		}
	}
	return timings, estimated
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, prayers []prayer.Prayer, current, next *prayer.Prayer) error {
	timings, estimated := jsonTimings(prayers, s.timeFmt)

	out := todayJSON{
		Location:  jsonLocation(s),
		Date:      s.date.String(),
		Settings:  jsonSettings(s.settings),
		Timings:   timings,
		Estimated: estimated,
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.timeFmt),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now)),
		}
	}

	return writeJSON(w, out)
}

// writeJSON pretty-prints v followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
