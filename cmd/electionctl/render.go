// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/settings"
)

func printStatus(w io.Writer, s settings.Settings) {
	fmt.Fprintf(w, "Voting is %s (%s election cycle)\n", s.VotingStatus, humanize.Ordinal(s.ElectionCycle))
}

func printLeaderboard(w io.Writer, board models.Leaderboard) {
	fmt.Fprintf(w, "%s: %s ballots, voting %s, computed %s\n",
		board.District, humanize.Comma(int64(board.BallotCount)), board.Status, humanize.Time(board.ComputedAt))

	if len(board.Rankings) == 0 {
		fmt.Fprintln(w, "  no candidates")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  RANK\tCANDIDATE\tPARTY\tPOINTS\t1ST PREFS\tENTRIES")
	for _, r := range board.Rankings {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			humanize.Ordinal(r.Rank), r.Name, r.Party,
			humanize.Comma(int64(r.Points)), humanize.Comma(int64(r.FirstPrefCount)), humanize.Comma(int64(r.TotalVotes)))
	}
	tw.Flush()

	if board.WinnerDeclared && len(board.Rankings) > 0 {
		fmt.Fprintf(w, "  Winner: %s (%s)\n", board.Rankings[0].Name, board.Rankings[0].CandidateID)
	}
}

func printReport(w io.Writer, boards []models.Leaderboard) {
	if len(boards) == 0 {
		fmt.Fprintln(w, "No districts have candidates.")
		return
	}
	total := 0
	for i, b := range boards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printLeaderboard(w, b)
		total += b.BallotCount
	}
	fmt.Fprintf(w, "\n%s districts, %s ballots\n", humanize.Comma(int64(len(boards))), humanize.Comma(int64(total)))
}

func printAudit(w io.Writer, entries []models.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Audit log is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTOR\tACTION\tDETAILS")
	for _, e := range entries {
		actor := "-"
		if e.UserID != nil {
			actor = *e.UserID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", humanize.Time(e.Timestamp), actor, e.Action, e.Details)
	}
	tw.Flush()
}
