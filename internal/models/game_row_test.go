package models

import (
	"errors"
	"testing"
)

func TestParseMatchup(t *testing.T) {
	tests := []struct {
		name         string
		matchup      string
		wantLocation string
		wantOpponent string
		wantErr      bool
	}{
		{name: "home game", matchup: "MIN vs. ATL", wantLocation: LocationHome, wantOpponent: "ATL"},
		{name: "away game", matchup: "MIN @ BOS", wantLocation: LocationAway, wantOpponent: "BOS"},
		{name: "extra whitespace", matchup: "  MIN   vs.   ATL  ", wantLocation: LocationHome, wantOpponent: "ATL"},
		{name: "unknown separator", matchup: "MIN at ATL", wantErr: true},
		{name: "too few tokens", matchup: "MIN ATL", wantErr: true},
		{name: "too many tokens", matchup: "MIN vs. ATL OT", wantErr: true},
		{name: "empty", matchup: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, opponent, err := ParseMatchup(tt.matchup)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedMatchup) {
					t.Fatalf("expected ErrMalformedMatchup, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if location != tt.wantLocation {
				t.Errorf("location = %q, want %q", location, tt.wantLocation)
			}
			if opponent != tt.wantOpponent {
				t.Errorf("opponent = %q, want %q", opponent, tt.wantOpponent)
			}
		})
	}
}

func TestStatValue(t *testing.T) {
	row := GameRow{Points: 31, Assists: 7, Rebounds: 9}

	for stat, want := range map[string]float64{
		StatPoints:   31,
		StatAssists:  7,
		StatRebounds: 9,
	} {
		got, err := row.StatValue(stat)
		if err != nil {
			t.Fatalf("StatValue(%s): %v", stat, err)
		}
		if got != want {
			t.Errorf("StatValue(%s) = %v, want %v", stat, got, want)
		}
	}

	if _, err := row.StatValue("BLK"); !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("expected ErrUnknownStat, got %v", err)
	}
}
