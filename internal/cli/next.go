package cli

import (
	"fmt"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next upcoming prayer time with a countdown.\n" +
			"Sunrise is skipped unless it is named in --prayers. Times marked with * come\n" +
			"from the high latitude estimate.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	next, err := nextPrayer(s)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, todayJSONNext{
			Prayer:    next.Name,
			Time:      prayer.FormatTime(next, s.timeFmt),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(next, s.now)),
		})
	}

	// Format and print.
	fmt.Fprint(out, prayer.FormatOutput(next, s.now, flagFormat, s.timeFmt))
	return nil
}

// nextPrayer finds the first tracked prayer after now. With the default
// selection that is one of the five daily prayers; an explicit --prayers
// list is honoured as given, Sunrise included.
func nextPrayer(s *session) (prayer.Prayer, error) {
	if s.defaultSelection() {
		return prayer.Upcoming(s.loc.Location, s.zone, s.settings, s.now), nil
	}

	today := prayer.DateOf(s.now)
	prayers, err := s.selected(today)
	if err != nil {
		return prayer.Prayer{}, err
	}
	if next := prayer.NextIn(prayers, s.now); next != nil {
		return *next, nil
	}

	// Everything tracked has passed; take tomorrow's first.
	tomorrow, err := s.selected(today.AddDays(1))
	if err != nil {
		return prayer.Prayer{}, err
	}
	if len(tomorrow) == 0 {
		return prayer.Prayer{}, fmt.Errorf("could not determine next prayer")
	}
	return tomorrow[0], nil
}
