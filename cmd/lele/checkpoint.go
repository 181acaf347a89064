package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/cli"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage snapshots of the analysis history",
		Long: `Create, list, restore and delete snapshots of the analysis database.

A checkpoint is taken automatically before every batch --save; the five most
recent automatic checkpoints are kept.`,
		Example: `  lele checkpoint create --tag before-harvest
  lele checkpoint list
  lele checkpoint restore before-harvest`,
	}

	cmd.AddCommand(checkpointCreateCmd())
	cmd.AddCommand(checkpointListCmd())
	cmd.AddCommand(checkpointRestoreCmd())
	cmd.AddCommand(checkpointDeleteCmd())
	return cmd
}

// withCheckpoints opens the database and hands its checkpoint manager to fn.
func withCheckpoints(cmd *cobra.Command, fn func(*storage.CheckpointManager) error) error {
	return withStorage(cmd.Context(), func(store *storage.SQLiteStorage, _ *config.Config) error {
		cm, err := store.NewCheckpointManager()
		if err != nil {
			return err
		}
		return fn(cm)
	})
}

func checkpointCreateCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd, func(cm *storage.CheckpointManager) error {
				cp, err := cm.Create(cmd.Context(), tag, description)
				if err != nil {
					return fmt.Errorf("failed to create checkpoint: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
					"Created checkpoint %s (%d analyses, %s)", cp.ID, cp.Analyses, formatFileSize(cp.FileSize))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (default: timestamp)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "note stored with the checkpoint")
	return cmd
}

func checkpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checkpoints, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd, func(cm *storage.CheckpointManager) error {
				checkpoints, err := cm.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(checkpoints) == 0 {
					fmt.Fprintln(out, cli.FormatInfo("No checkpoints yet"))
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCREATED\tANALYSES\tSIZE\tDESCRIPTION")
				for _, cp := range checkpoints {
					id := cp.ID
					if cp.IsAuto {
						id += " (auto)"
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
						id, cp.CreatedAt.Local().Format("2006-01-02 15:04"), cp.Analyses,
						formatFileSize(cp.FileSize), cp.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func checkpointRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the database with a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCheckpoints(cmd, func(cm *storage.CheckpointManager) error {
				if err := cm.Restore(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Restored checkpoint "+args[0]))
				return nil
			})
		},
	}
}

func checkpointDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCheckpoints(cmd, func(cm *storage.CheckpointManager) error {
				if err := cm.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted checkpoint "+args[0]))
				return nil
			})
		},
	}
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
