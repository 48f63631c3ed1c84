package cli

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <prayer>",
		Short: "Show rak'ah counts and notes for a prayer",
		Long:  "Show today's time for a prayer together with its rak'ah counts and notes.\n\nValid prayer names: Fajr, Dhuhr, Asr, Maghrib, Isha",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetails,
	}
}

type detailsJSON struct {
	Prayer    string       `json:"prayer"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
	Estimated bool         `json:"estimated"`
	Rakah     prayer.Rakah `json:"rakah"`
	Notes     []string     `json:"notes"`
}

func runDetails(cmd *cobra.Command, args []string) error {
	event, err := prayer.ParseEvent(args[0])
	if err != nil {
		return err
	}
	detail, ok := prayer.Details(event)
	if !ok {
		return fmt.Errorf("%s is not a prayer; valid names: Fajr, Dhuhr, Asr, Maghrib, Isha", event)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	p, err := prayer.Select(s.times(s.date), []string{event.String()})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, detailsJSON{
			Prayer:    strings.ToLower(event.String()),
			Date:      s.date.String(),
			Time:      p[0].Time.Format(s.timeFmt),
			Estimated: p[0].Estimated,
			Rakah:     detail.Rakah,
			Notes:     detail.Notes,
		})
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s  %s\n", display.Bold(event.String()), prayer.FormatTime(p[0], s.timeFmt))
	fmt.Fprintf(out, "  %s\n", display.Gray(formatGregorianDate(s.date)))
	fmt.Fprintln(out)

	pairs := [][2]string{{"Fard", fmt.Sprintf("%d rak'ah", detail.Rakah.Fard)}}
	if detail.Rakah.SunnahBefore > 0 {
		pairs = append(pairs, [2]string{"Sunnah before", fmt.Sprintf("%d rak'ah", detail.Rakah.SunnahBefore)})
	}
	if detail.Rakah.SunnahAfter > 0 {
		pairs = append(pairs, [2]string{"Sunnah after", fmt.Sprintf("%d rak'ah", detail.Rakah.SunnahAfter)})
	}
	fmt.Fprint(out, display.KeyValues(pairs))

	if len(detail.Notes) > 0 {
		fmt.Fprintln(out)
		for _, n := range detail.Notes {
			fmt.Fprintf(out, "  - %s\n", n)
		}
	}
	if p[0].Estimated {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s\n", display.Yellow(estimateNote(s.settings)))
	}
	fmt.Fprintln(out)
	return nil
}
