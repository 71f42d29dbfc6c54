package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// ErrSlotFull is returned when both places of an unassigned time are taken.
var ErrSlotFull = errors.New("no free places at this time")

func (a *App) addCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		title    string
		notes    string
		resource string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a slot",
		Long: `Create a slot on the schedule.

Without --end the slot lasts the configured default duration. Without
--resource at most two slots may start at the same time.`,
		Example: `  mirrorcrm add --start=10:00 --title="Иванова"
  mirrorcrm add --date=2024-03-01 --start=10:00 --end=11:30 --resource=emp-7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			var s *slot.Slot
			if end == "" {
				s, err = slot.NewWithDuration(day, start, a.config.Grid.DefaultDuration, title, notes, resource)
			} else {
				s, err = slot.New(day, start, end, title, notes, resource)
			}
			if err != nil {
				return err
			}
			g, err := a.config.Geometry()
			if err != nil {
				return err
			}
			if !s.WithinDay(g.DayStart, g.DayEnd) {
				return fmt.Errorf("%w: %s–%s", slot.ErrOutsideDay, a.config.Grid.DayStart, a.config.Grid.DayEnd)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx := context.Background()

			if resource == "" {
				existing, err := svc.ListDay(ctx, s.Date)
				if err != nil {
					return fmt.Errorf("checking capacity: %w", err)
				}
				if slot.FreeAt(existing, s.Start) == 0 {
					return fmt.Errorf("%w: %s", ErrSlotFull, s.Start)
				}
			}

			created, err := svc.Create(ctx, s.Snapshot())
			if err != nil {
				return fmt.Errorf("creating slot: %w", err)
			}
			printSlotLine(cmd.OutOrStdout(), "Создан слот", created)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow or a weekday; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, default: start + default_duration)")
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&resource, "resource", "", "Employee id")

	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// printSlotLine prints a one-line confirmation for a slot.
func printSlotLine(w io.Writer, verb string, s slot.Slot) {
	fmt.Fprintf(w, "%s #%s: %s\n", formatSuccess(verb), s.ID,
		joinNonEmpty(" ", s.Date, s.TimeLabel(), s.DisplayTitle(), bracket(s.ResourceID)))
}

func bracket(s string) string {
	if s == "" {
		return ""
	}
	return "[" + s + "]"
}
