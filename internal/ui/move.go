package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/poll"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/commands"
)

// ErrSlotNotFound is returned when the slot id is not on the given date.
var ErrSlotNotFound = errors.New("slot not found on this date")

func (a *App) moveCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		resource string
		comment  string
		wait     bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "move [slot-id]",
		Short: "Move or resize a slot",
		Long: `Change the times or employee of a slot.

Without --end the slot keeps its length. With --wait the command polls
the day until the service lists the slot with the new times. Some
services require --comment when the times change.`,
		Example: `  mirrorcrm move 42 --date=2024-03-01 --start=11:00
  mirrorcrm move 42 --date=2024-03-01 --start=11:00 --end=12:30 --resource=emp-7 --wait`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx := context.Background()

			current, err := a.findSlot(ctx, args[0], date)
			if err != nil {
				return err
			}

			if start == "" {
				start = current.Start
			}
			if end == "" {
				startMin, err := slot.MinutesFromClock(start)
				if err != nil {
					return fmt.Errorf("start time: %w", err)
				}
				end = slot.ClockFromMinutes(startMin + current.Duration())
			}

			req := slot.UpdateRequest{
				ID:         current.ID,
				Date:       current.Date,
				Start:      start,
				End:        end,
				ResourceID: resource,
				Comment:    comment,
			}
			if err := req.Validate(); err != nil {
				return err
			}
			after := req.Apply(current)
			g, err := a.config.Geometry()
			if err != nil {
				return err
			}
			if !after.WithinDay(g.DayStart, g.DayEnd) {
				return fmt.Errorf("%w: %s–%s", slot.ErrOutsideDay, a.config.Grid.DayStart, a.config.Grid.DayEnd)
			}

			updated, err := svc.Update(ctx, req)
			if err != nil {
				return fmt.Errorf("moving slot: %w", err)
			}
			if updated.ID == "" {
				updated = after
			}
			printSlotLine(cmd.OutOrStdout(), "Перенесён слот", updated)

			if !wait {
				return nil
			}
			if err := a.waitFor(ctx, after, timeout); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Сервер подтвердил изменение"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the slot (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM, default: keep length)")
	cmd.Flags().StringVar(&resource, "resource", "", "New employee id")
	cmd.Flags().StringVar(&comment, "comment", "", "Reason for the change, sent with the update")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the service lists the change")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long --wait polls")

	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// findSlot returns slot id from the list of date.
func (a *App) findSlot(ctx context.Context, id, date string) (slot.Slot, error) {
	svc, err := a.service()
	if err != nil {
		return slot.Slot{}, err
	}
	date, err = a.resolveDate(date)
	if err != nil {
		return slot.Slot{}, err
	}
	slots, err := svc.ListDay(ctx, date)
	if err != nil {
		return slot.Slot{}, fmt.Errorf("listing slots: %w", err)
	}
	i := slot.Find(slots, id)
	if i < 0 {
		return slot.Slot{}, fmt.Errorf("%w: %s on %s", ErrSlotNotFound, id, date)
	}
	return slots[i], nil
}

// waitFor polls the day until the service lists want.
func (a *App) waitFor(ctx context.Context, want slot.Slot, timeout time.Duration) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	attempts := 0
	err = poll.Until(ctx, poll.Options{Timeout: timeout}, func(ctx context.Context) (bool, error) {
		attempts++
		slots, err := svc.ListDay(ctx, want.Date)
		if err != nil {
			return false, err
		}
		i := slot.Find(slots, want.ID)
		if i < 0 {
			return false, ErrSlotNotFound
		}
		return commands.Matches(slots[i], want), nil
	})
	a.log().Debug("wait for change", zap.String("slot", want.ID), zap.Int("attempts", attempts), zap.Error(err))
	if err != nil {
		return fmt.Errorf("change not visible yet: %w", err)
	}
	return nil
}
