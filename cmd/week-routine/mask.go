package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/belphemur/week-routine/internal/constants"
	"github.com/belphemur/week-routine/weekmask"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// maskView is the serialised form of a week mask
type maskView struct {
	Value int      `yaml:"value"`
	Days  []string `yaml:"days"`
}

func newMaskView(w weekmask.WeekMask) maskView {
	return maskView{Value: w.Int(), Days: w.DayNames()}
}

// maskFromArgs accepts day names, indexes and comma separated lists, or a single raw value
func maskFromArgs(args []string) (*weekmask.WeekMask, error) {
	if len(args) == 1 && isNumber(strings.TrimSpace(args[0])) {
		w := new(weekmask.WeekMask)
		if err := w.UnmarshalText([]byte(args[0])); err != nil {
			return nil, err
		}
		return w, nil
	}

	w := new(weekmask.WeekMask)
	for _, arg := range args {
		for _, ref := range strings.Split(arg, ",") {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				continue
			}
			if !constants.IsValidDayOfWeek(ref) {
				return nil, fmt.Errorf("unknown day %q", ref)
			}
			w.SetAt(ref, true)
		}
	}
	return w, nil
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func newMaskCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "mask DAYS...",
		Short: "Describe a week mask",
		Long: `Build a week mask from full day names, day indexes (0 is Sunday) or comma separated lists
of them, and print its value and days.

A single numeric argument is read as the raw mask value between 0 and 127, so "mask 5" means
Sunday and Tuesday. To select Friday by index, combine it with another reference ("mask 5,")
or use its name ("mask friday").`,
		Example: `  week-routine mask monday wednesday friday
  week-routine mask 42
  week-routine mask saturday,sunday --output yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := maskFromArgs(args)
			if err != nil {
				return err
			}
			switch output {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), newMaskView(*w))
			case "text":
				_, err := fmt.Fprintln(cmd.OutOrStdout(), w.String())
				return err
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, yaml)")
	return cmd
}

func newNextCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "next DAYS...",
		Short: "Print the next date falling on one of the given days",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := maskFromArgs(args)
			if err != nil {
				return err
			}
			start, err := parseDate(from)
			if err != nil {
				return err
			}
			next, ok := w.NextDate(start)
			if !ok {
				return fmt.Errorf("no day set in mask %d", w.Int())
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", next.Format(constants.DateFormat), weekmask.DayName(next.Weekday()))
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first candidate date (YYYY-MM-DD, defaults to today)")
	return cmd
}

func newDatesCmd() *cobra.Command {
	var from, to string
	var exclusive bool

	cmd := &cobra.Command{
		Use:   "dates DAYS...",
		Short: "List the dates of a range falling on the given days",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := maskFromArgs(args)
			if err != nil {
				return err
			}
			start, err := parseDate(from)
			if err != nil {
				return err
			}
			end := start.AddDate(0, 0, 6)
			if to != "" {
				if end, err = parseDate(to); err != nil {
					return err
				}
			}

			r := weekmask.Closed(start, end)
			if exclusive {
				r = weekmask.HalfOpen(start, end)
			}
			for d := range w.Dates(r) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Format(constants.DateFormat), weekmask.DayName(d.Weekday())); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start of the range (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", "end of the range (YYYY-MM-DD, defaults to six days after --from)")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "exclude the end date")
	return cmd
}
