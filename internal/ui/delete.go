package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/db"
)

func (a *App) deleteCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "delete [slot-id]",
		Short: "Delete a slot",
		Long: `Delete a slot. A snapshot is kept locally so 'mirrorcrm undo' can
re-create it for a short while.`,
		Example: `  mirrorcrm delete 42 --date=2024-03-01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx := context.Background()

			s, err := a.findSlot(ctx, args[0], date)
			if err != nil {
				return err
			}
			if err := svc.Delete(ctx, s.ID, s.Date); err != nil {
				return fmt.Errorf("deleting slot: %w", err)
			}
			printSlotLine(cmd.OutOrStdout(), "Удалён слот", s)

			store, err := a.openStore()
			if err == nil {
				err = store.SaveDeleted(ctx, s, a.now())
			}
			if err != nil {
				a.log().Warn("undo snapshot not saved", zap.Error(err))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatMuted(fmt.Sprintf(
				"Отменить: mirrorcrm undo %s (в течение %s)", s.ID, db.UndoWindow)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the slot (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func (a *App) undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo [slot-id]",
		Short: "Restore a just-deleted slot",
		Long: `Re-create a slot deleted within the undo window. Without an id the
most recent delete is restored. The restored slot gets a new id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := context.Background()

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				latest, err := store.LatestDeleted(ctx)
				if err != nil {
					return fmt.Errorf("nothing to undo: %w", err)
				}
				id = latest.Slot.ID
			}

			snapshot, err := store.TakeDeleted(ctx, id, a.now())
			if err != nil {
				return fmt.Errorf("undo %s: %w", id, err)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			restored, err := svc.Create(ctx, snapshot.Snapshot())
			if err != nil {
				return fmt.Errorf("restoring slot: %w", err)
			}
			printSlotLine(cmd.OutOrStdout(), "Восстановлен слот", restored)
			return nil
		},
	}
}
