package cli

import (
	"fmt"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/qibla"
	"github.com/spf13/cobra"
)

var (
	flagHeading   float64
	flagTolerance float64
)

func newQiblaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla direction",
		Long: "Print the great-circle bearing from your location to the Kaaba, its compass\n" +
			"point and the distance. With --heading, also report where the Qibla lies\n" +
			"relative to the direction you are facing.",
		Args: cobra.NoArgs,
		RunE: runQibla,
	}

	cmd.Flags().Float64Var(&flagHeading, "heading", 0, "Your current compass heading in degrees from true north")
	cmd.Flags().Float64Var(&flagTolerance, "tolerance", qibla.DefaultTolerance, "Degrees either side of the Qibla that count as facing it")

	return cmd
}

type qiblaJSON struct {
	Location   todayJSONLocation `json:"location"`
	Bearing    float64           `json:"bearing"`
	Cardinal   string            `json:"cardinal"`
	DistanceKm float64           `json:"distance_km"`
	Heading    *float64          `json:"heading,omitempty"`
	Relative   *float64          `json:"relative,omitempty"`
	Aligned    *bool             `json:"aligned,omitempty"`
}

func runQibla(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	lat, lon := s.loc.Latitude, s.loc.Longitude
	bearing := qibla.Bearing(lat, lon)
	result := qiblaJSON{
		Location:   jsonLocation(s),
		Bearing:    bearing,
		Cardinal:   qibla.CardinalDirection(bearing),
		DistanceKm: qibla.Distance(lat, lon),
	}

	if cmd.Flags().Changed("heading") {
		if flagTolerance < 0 || flagTolerance > 180 {
			return fmt.Errorf("invalid --tolerance %v: must be between 0 and 180", flagTolerance)
		}
		heading := flagHeading
		relative := qibla.Relative(bearing, heading)
		aligned := qibla.Aligned(bearing, heading, flagTolerance)
		result.Heading = &heading
		result.Relative = &relative
		result.Aligned = &aligned
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, result)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Qibla"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.loc.label())
	fmt.Fprintln(out)

	pairs := [][2]string{
		{"Bearing", fmt.Sprintf("%.1f° %s", result.Bearing, result.Cardinal)},
		{"Distance", fmt.Sprintf("%.0f km", result.DistanceKm)},
	}
	if result.Relative != nil {
		status := display.Yellow(fmt.Sprintf("turn %s", turnHint(*result.Relative)))
		if *result.Aligned {
			status = display.Green("facing the Qibla")
		}
		pairs = append(pairs,
			[2]string{"Heading", fmt.Sprintf("%.1f°", *result.Heading)},
			[2]string{"Relative", fmt.Sprintf("%.1f°", *result.Relative)},
			[2]string{"Status", status},
		)
	}
	fmt.Fprint(out, display.KeyValues(pairs))
	fmt.Fprintln(out)
	return nil
}

// turnHint says which way, and how far, to turn toward the Qibla.
func turnHint(relative float64) string {
	if relative <= 180 {
		return fmt.Sprintf("right %.0f°", relative)
	}
	return fmt.Sprintf("left %.0f°", 360-relative)
}
