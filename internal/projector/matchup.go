// Package projector provides a pace- and usage-based baseline points
// projection from season averages, independent of the trained regression.
// It serves as a sanity baseline alongside model estimates.
package projector

import "math"

// LeagueAverages holds league-wide baselines used to scale matchup
// adjustments.
type LeagueAverages struct {
	TwoPointPct   float64
	ThreePointPct float64
	FTARate       float64
	Pace          float64
}

// DefaultLeagueAverages returns recent league-wide shooting and free-throw
// baselines. Pace must still be supplied per season.
func DefaultLeagueAverages(pace float64) LeagueAverages {
	return LeagueAverages{
		TwoPointPct:   0.55,
		ThreePointPct: 0.357,
		FTARate:       0.246,
		Pace:          pace,
	}
}

// PlayerProfile holds the per-game season averages the projection is built
// from.
type PlayerProfile struct {
	MinutesPerGame      float64
	UsageRate           float64 // percentage, e.g. 31.2
	TwoPointFrequency   float64 // share of field goal attempts
	ThreePointFrequency float64
	TwoPointPct         float64
	ThreePointPct       float64
	FreeThrowPct        float64
}

// OpponentDefense holds the opponent's defensive profile for the matchup.
type OpponentDefense struct {
	Pace                 float64
	TwoPointPctAllowed   float64
	ThreePointPctAllowed float64
	FTARate              float64
}

// ShotAttempts breaks projected attempts down by type.
type ShotAttempts struct {
	TwoPointers   float64 `json:"two_pointers"`
	ThreePointers float64 `json:"three_pointers"`
	FreeThrows    float64 `json:"free_throws"`
}

// Breakdown details where the projected points come from.
type Breakdown struct {
	TwoPoints        float64      `json:"two_points"`
	ThreePoints      float64      `json:"three_points"`
	FreeThrows       float64      `json:"free_throws"`
	ShotAttempts     ShotAttempts `json:"shot_attempts"`
	AdjustedTwoPct   float64      `json:"adjusted_two_point_pct"`
	AdjustedThreePct float64      `json:"adjusted_three_point_pct"`
}

// Projection is the baseline matchup projection.
type Projection struct {
	ProjectedPoints      float64   `json:"projected_points"`
	GamePace             float64   `json:"game_pace"`
	ProjectedPossessions float64   `json:"projected_possessions"`
	Breakdown            Breakdown `json:"breakdown"`
}

// MatchupProjector projects points from season averages, pace factors, and
// the opponent's defensive profile.
type MatchupProjector struct {
	teamPace float64
	league   LeagueAverages
}

// NewMatchupProjector creates a projector for a player's own team pace.
func NewMatchupProjector(teamPace float64, league LeagueAverages) *MatchupProjector {
	return &MatchupProjector{teamPace: teamPace, league: league}
}

// GamePace estimates the expected pace of a game between two teams by
// averaging their pace factors relative to league average.
func (p *MatchupProjector) GamePace(opponentPace float64) float64 {
	teamFactor := p.teamPace / p.league.Pace
	opponentFactor := opponentPace / p.league.Pace
	return p.league.Pace * (teamFactor + opponentFactor) / 2
}

// adjustShootingPct scales a shooting percentage by the differential between
// what the defense allows and the league average.
func adjustShootingPct(base, leagueAvg, defenseAllowed float64) float64 {
	impact := (defenseAllowed - leagueAvg) / leagueAvg
	return base * (1 + impact)
}

// ProjectPoints projects expected points for a player against the given
// opponent defense.
func (p *MatchupProjector) ProjectPoints(player PlayerProfile, opp OpponentDefense) Projection {
	gamePace := p.GamePace(opp.Pace)
	minutesFactor := player.MinutesPerGame / 48
	possessions := gamePace * minutesFactor

	// Possessions the player actually uses, split into attempts by the
	// player's shot mix.
	playerPossessions := possessions * player.UsageRate / 100
	attempts := ShotAttempts{
		TwoPointers:   playerPossessions * player.TwoPointFrequency,
		ThreePointers: playerPossessions * player.ThreePointFrequency,
		FreeThrows:    playerPossessions * opp.FTARate,
	}

	adjustedTwoPct := adjustShootingPct(player.TwoPointPct, p.league.TwoPointPct, opp.TwoPointPctAllowed)
	adjustedThreePct := adjustShootingPct(player.ThreePointPct, p.league.ThreePointPct, opp.ThreePointPctAllowed)

	twoPoints := attempts.TwoPointers * adjustedTwoPct * 2
	threePoints := attempts.ThreePointers * adjustedThreePct * 3
	freeThrows := attempts.FreeThrows * player.FreeThrowPct

	return Projection{
		ProjectedPoints:      round1(twoPoints + threePoints + freeThrows),
		GamePace:             round1(gamePace),
		ProjectedPossessions: round1(possessions),
		Breakdown: Breakdown{
			TwoPoints:   round1(twoPoints),
			ThreePoints: round1(threePoints),
			FreeThrows:  round1(freeThrows),
			ShotAttempts: ShotAttempts{
				TwoPointers:   round1(attempts.TwoPointers),
				ThreePointers: round1(attempts.ThreePointers),
				FreeThrows:    round1(attempts.FreeThrows),
			},
			AdjustedTwoPct:   round1(adjustedTwoPct * 100),
			AdjustedThreePct: round1(adjustedThreePct * 100),
		},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
