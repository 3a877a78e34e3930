// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package results publishes district leaderboards.
package results

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/tally"
)

// maxConcurrentDistricts bounds PublishAll's parallel tallies.
const maxConcurrentDistricts = 4

// StatusSource reports the voting window state. *window.Controller implements it.
type StatusSource interface {
	CurrentStatus(ctx context.Context) (string, error)
}

// Source is the read side of the vote store the publisher needs.
type Source interface {
	tally.Reader
	Districts(ctx context.Context) ([]string, error)
}

// Publisher turns tallies into leaderboards and declares winners once voting has closed.
type Publisher struct {
	source Source
	window StatusSource
	now    func() time.Time
}

func NewPublisher(source Source, window StatusSource) *Publisher {
	return &Publisher{source: source, window: window, now: time.Now}
}

// Publish builds the leaderboard for a district.
//
// The status is read before tallying: a closed window admits no further
// ballots, so a tally taken after observing closed is final.
func (p *Publisher) Publish(ctx context.Context, district string) (models.Leaderboard, error) {
	status, err := p.window.CurrentStatus(ctx)
	if err != nil {
		return models.Leaderboard{}, fmt.Errorf("failed to read voting status: %w", err)
	}

	// Rankings and BallotCount come from the same snapshot.
	result, err := tally.Tally(ctx, p.source, district)
	if err != nil {
		return models.Leaderboard{}, err
	}

	board := models.Leaderboard{
		District:    district,
		Status:      status,
		Rankings:    tally.Rank(result.Candidates),
		BallotCount: result.Ballots,
		ComputedAt:  p.now().UTC(),
	}

	if status == models.StatusClosed {
		board.WinnerDeclared = true
		// With an empty roster there is nobody to declare.
		if len(board.Rankings) > 0 {
			winner := board.Rankings[0].CandidateID
			board.Winner = &winner
		}
	}

	return board, nil
}

// PublishAll builds leaderboards for every district with candidates,
// ordered by district name.
func (p *Publisher) PublishAll(ctx context.Context) ([]models.Leaderboard, error) {
	districts, err := p.source.Districts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}

	boards := make([]models.Leaderboard, len(districts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDistricts)
	for i, district := range districts {
		g.Go(func() error {
			board, err := p.Publish(gctx, district)
			if err != nil {
				return fmt.Errorf("district %s: %w", district, err)
			}
			boards[i] = board
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return boards, nil
}
