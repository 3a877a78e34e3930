// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/settings"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the voting status and election cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				s, err := svc.Settings(ctx)
				if err != nil {
					return err
				}
				return a.emit(s, func(w io.Writer) { printStatus(w, s) })
			})
		},
	}
}

// setStatusCmd builds the open and close commands
func setStatusCmd(a *app, use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				changed, err := svc.SetVotingStatus(ctx, status, operator())
				if err != nil {
					return err
				}
				s, err := svc.Settings(ctx)
				if err != nil {
					return err
				}
				return a.emit(s, func(w io.Writer) {
					if !changed {
						fmt.Fprintf(w, "Voting already %s.\n", status)
					}
					printStatus(w, s)
				})
			})
		},
	}
}

func newCloseCmd(a *app) *cobra.Command {
	return setStatusCmd(a, "close", "Close voting for the current cycle", models.StatusClosed)
}

func newOpenCmd(a *app) *cobra.Command {
	return setStatusCmd(a, "open", "Open voting (only valid before the cycle is closed)", models.StatusOpen)
}

func newNewCycleCmd(a *app) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "new-cycle",
		Short: "Delete every ballot of the closed cycle and reopen voting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("new-cycle deletes all ballots; rerun with --yes to confirm")
			}
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				cycle, err := svc.StartNewCycle(ctx, operator())
				if err != nil {
					return err
				}
				s := settings.Settings{VotingStatus: models.StatusOpen, ElectionCycle: cycle}
				return a.emit(s, func(w io.Writer) { printStatus(w, s) })
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deleting all ballots")
	return cmd
}

func newLeaderboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard [district]",
		Short: "Show the ranked leaderboard for a district, or every district",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				if len(args) == 0 {
					boards, err := svc.GetAllLeaderboards(ctx)
					if err != nil {
						return err
					}
					return a.emit(boards, func(w io.Writer) {
						for _, b := range boards {
							printLeaderboard(w, b)
						}
					})
				}
				board, err := svc.GetLeaderboard(ctx, args[0])
				if err != nil {
					return err
				}
				return a.emit(board, func(w io.Writer) { printLeaderboard(w, board) })
			})
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show leaderboards for every district",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				boards, err := svc.GetAllLeaderboards(ctx)
				if err != nil {
					return err
				}
				return a.emit(boards, func(w io.Writer) { printReport(w, boards) })
			})
		},
	}
}

func newAuditCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audit log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *election.Service) error {
				entries, err := svc.AuditLog(ctx, limit)
				if err != nil {
					return err
				}
				return a.emit(entries, func(w io.Writer) { printAudit(w, entries) })
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")
	return cmd
}
