package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

func (a *App) dayCmd() *cobra.Command {
	var (
		date    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Print the slots of a day by employee",
		Long: `Print the slots of one day, grouped by employee in the order the
service lists them.

If the employee list cannot be loaded the slots are printed as one list.`,
		Example: `  mirrorcrm day
  mirrorcrm day --date=tomorrow
  mirrorcrm day --date=2024-03-01 -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			d, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx := context.Background()
			slots, err := svc.ListDay(ctx, date)
			if err != nil {
				return fmt.Errorf("listing slots: %w", err)
			}
			resources, err := svc.Resources(ctx)
			if err != nil {
				a.log().Warn("employee list unavailable", zap.Error(err))
				resources = nil
			}

			printDay(cmd.OutOrStdout(), view.DayTitle(d), slots, resources, PrintOpts{Verbose: verbose})
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show notes and slot ids")
	return cmd
}

// printDay prints slots grouped under each resource. Slots of resources not
// in the list are printed last.
func printDay(w io.Writer, title string, slots []slot.Slot, resources []slot.Resource, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(title))
	if len(slots) == 0 {
		fmt.Fprintln(w, "\nНа этот день слотов нет.")
		return
	}

	sorted := slot.Clone(slots)
	slot.SortByStart(sorted)
	maxTitle := opts.CalcMaxTitleWidth(28)

	known := make(map[string]bool, len(resources))
	var stats DayStats
	for _, r := range resources {
		known[r.ID] = true
	}
	for _, s := range sorted {
		AccumulateStats(&stats, s, known)
	}

	if len(resources) == 0 {
		fmt.Fprintln(w)
		for _, s := range sorted {
			PrintSlotRow(w, s, opts, maxTitle)
		}
	} else {
		for _, r := range resources {
			if stats.PerResource[r.ID] == 0 && !opts.Verbose {
				continue
			}
			fmt.Fprintf(w, "\n  %s\n", formatHeader(r.FullName))
			for _, s := range sorted {
				if s.ResourceID == r.ID {
					PrintSlotRow(w, s, opts, maxTitle)
				}
			}
		}
		if orphans := unassigned(sorted, known); len(orphans) > 0 {
			fmt.Fprintf(w, "\n  %s\n", formatMuted("Без сотрудника"))
			for _, s := range orphans {
				PrintSlotRow(w, s, opts, maxTitle)
			}
		}
	}

	fmt.Fprintln(w)
	PrintStats(w, stats)
}

func unassigned(slots []slot.Slot, known map[string]bool) []slot.Slot {
	var out []slot.Slot
	for _, s := range slots {
		if !known[s.ResourceID] {
			out = append(out, s)
		}
	}
	return out
}

func (a *App) monthCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month calendar with the number of slots per day",
		Example: `  mirrorcrm month
  mirrorcrm month --month=2024-03`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month == "" {
				month = dateutil.FormatMonth(a.now())
			}
			t, err := dateutil.ParseMonth(month)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			days, err := svc.Month(context.Background(), dateutil.FormatMonth(t))
			if err != nil {
				return fmt.Errorf("loading month: %w", err)
			}

			counts := make(map[string]int, len(days))
			for _, d := range days {
				counts[d.Date] = d.Count
			}
			printMonth(cmd.OutOrStdout(), view.MonthTitle(t), dateutil.MonthGrid(t), counts, dateutil.FormatDate(a.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM, default: current)")
	return cmd
}

// printMonth prints a Monday-first calendar. Days with slots show their count.
func printMonth(w io.Writer, title string, cells []dateutil.CalendarCell, counts map[string]int, today string) {
	const cellWidth = 6

	fmt.Fprintf(w, "%s\n\n", formatHeader(title))
	for _, d := range view.WeekdayHeader {
		fmt.Fprint(w, view.PadRight(" "+d, cellWidth))
	}
	fmt.Fprintln(w)

	total := 0
	for i, c := range cells {
		if i > 0 && i%7 == 0 {
			fmt.Fprintln(w)
		}
		text := fmt.Sprintf("%3d", c.Day)
		n := counts[c.Date]
		if n > 0 && !c.OtherMonth {
			text += fmt.Sprintf("·%d", n)
			total += n
		}
		text = view.PadRight(text, cellWidth)
		switch {
		case c.OtherMonth:
			text = formatMuted(text)
		case c.Date == today:
			text = formatHeader(text)
		case n > 0:
			text = formatSuccess(text)
		}
		fmt.Fprint(w, text)
	}
	fmt.Fprintf(w, "\n\nСлотов за месяц: %d\n", total)
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
