// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
)

// app carries state shared by every subcommand
type app struct {
	envFile string
	output  string
	out     io.Writer

	// connect opens the service; tests replace it
	connect func(ctx context.Context, envFile string) (*election.Service, func(), error)
}

func newApp(out io.Writer) *app {
	return &app{out: out, connect: connect}
}

// connect builds a service from the environment (and optional .env file)
func connect(ctx context.Context, envFile string) (*election.Service, func(), error) {
	cfg, err := cliparse.FromEnv(envFile)
	if err != nil {
		return nil, nil, err
	}
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return election.New(conn, dialect, nil), func() { conn.Close() }, nil
}

// withService opens the service for the duration of fn
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *election.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := a.connect(ctx, a.envFile)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}

// emit prints v as JSON or hands off to the text renderer
func (a *app) emit(v any, text func(w io.Writer)) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text(a.out)
		return nil
	default:
		return fmt.Errorf("invalid --output: %s (use json|text)", a.output)
	}
}

// operator identifies whoever runs the CLI in the audit log
func operator() models.Actor {
	name := "electionctl"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = "electionctl:" + u.Username
	} else if h, err := os.Hostname(); err == nil {
		name = "electionctl@" + h
	}
	return models.Actor{UserID: name}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "electionctl",
		Short:         "Administer the election database",
		Long:          "Inspect leaderboards and the audit log, and open, close or restart the voting window.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.out)

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Optional dotenv file")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "Output format: json|text")

	rootCmd.AddCommand(
		newStatusCmd(a),
		newCloseCmd(a),
		newOpenCmd(a),
		newNewCycleCmd(a),
		newLeaderboardCmd(a),
		newReportCmd(a),
		newAuditCmd(a),
	)
	return rootCmd
}
