package cli

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/prayer-engine/internal/cache"
	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/display"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	skip := map[string]string{skipConfigAnnotation: "true"}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long: "Display current configuration, or use subcommands to modify it.\n" +
			"When run without subcommands, shows the current configuration.\n\n" +
			"Every key can also be set through the environment as " + config.EnvPrefix + "_<KEY>,\n" +
			"for example " + config.EnvPrefix + "_LATITUDE=51.5.",
		RunE: runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-times config set latitude 51.5074\n  prayer-times config set longitude -0.1278\n  prayer-times config set timezone Europe/London\n  prayer-times config set method ISNA\n  prayer-times config set asr_method Hanafi\n  prayer-times config set high_latitude_rule AngleBased\n  prayer-times config set isha_adjust 2\n  prayer-times config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha",
			strings.Join(config.ValidKeys, ", ")),
		Args:        cobra.ExactArgs(2),
		Annotations: skip,
		RunE:        runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "reset",
		Short:       "Reset config to defaults",
		Long:        "Delete the config file and restore all settings to defaults.",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE:        runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print config file path",
		Args:        cobra.NoArgs,
		Annotations: skip,
		RunE:        runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg := loadedConfig
	if cfg == nil {
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cfg)
	}

	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = display.Gray("(not set)")
		}
		// Add descriptive labels for the method.
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		fmt.Fprintf(out, "  %-20s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value. Only the file is read
// and written, so environment overrides are never persisted.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method's long name to its short name.
func formatMethodValue(val string) string {
	m, err := prayer.ParseMethod(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", m, m.Description())
}

// describeIsha renders a method's Isha rule, e.g. "17°" or "90 min after Maghrib".
func describeIsha(p prayer.Parameters) string {
	if p.UsesIshaInterval() {
		return fmt.Sprintf("%d min after Maghrib", p.IshaInterval)
	}
	return fmt.Sprintf("%g°", p.IshaAngle)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "methods",
		Short:       "List all calculation methods",
		Long:        "Print the supported calculation methods with their twilight angles, and the\nAsr and high latitude options.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if FlagJSON {
				type methodJSON struct {
					Name         string  `json:"name"`
					Description  string  `json:"description"`
					FajrAngle    float64 `json:"fajr_angle"`
					IshaAngle    float64 `json:"isha_angle,omitempty"`
					IshaInterval int     `json:"isha_interval_minutes,omitempty"`
				}
				var list []methodJSON
				for _, m := range prayer.Methods() {
					p := m.Parameters()
					list = append(list, methodJSON{m.String(), m.Description(), p.FajrAngle, p.IshaAngle, p.IshaInterval})
				}
				return writeJSON(out, list)
			}

			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)

			tbl := display.NewTable([]string{"Name", "Fajr", "Isha", "Authority"})
			for _, m := range prayer.Methods() {
				p := m.Parameters()
				tbl.AddRow([]string{m.String(), fmt.Sprintf("%g°", p.FajrAngle), describeIsha(p), m.Description()})
			}
			fmt.Fprint(out, tbl.Render())
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Asr methods:          Standard (shadow = 1x), Hanafi (shadow = 2x)")
			rules := make([]string, 0, 3)
			for _, r := range prayer.HighLatitudeRules() {
				rules = append(rules, r.String())
			}
			fmt.Fprintf(out, "High latitude rules:  %s\n", strings.Join(rules, ", "))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <name> to select a calculation method (default: MWL).")
			return nil
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached geolocation and reference times",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			c, err := cache.New(cfg.CacheDir)
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Dir())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.CacheDir
			if dir == "" {
				if dir, err = cache.DefaultDir(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	return cmd
}
