// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command electionctl administers the election database directly: it reads
// the voting status and leaderboards, moves the voting window and prints the
// audit trail. It reads the same environment as the API server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		os.Exit(1)
	}
}
