// Package teams provides the fixed NBA team directory used to resolve
// opponent codes to canonical city names and season identifiers to season
// year strings.
package teams

import (
	"fmt"

	"github.com/yourusername/courtside/internal/models"
)

// directory is the complete set of team codes with their canonical city
// names. The set is finite and closed; resolution of a code outside it is an
// ErrUnknownEntity, never a silent zero value.
var directory = map[string]string{
	"ATL": "Atlanta",
	"BKN": "Brooklyn",
	"BOS": "Boston",
	"CHA": "Charlotte",
	"CHI": "Chicago",
	"CLE": "Cleveland",
	"DAL": "Dallas",
	"DEN": "Denver",
	"DET": "Detroit",
	"GSW": "Golden State",
	"HOU": "Houston",
	"IND": "Indiana",
	"LAC": "Los Angeles Clippers",
	"LAL": "Los Angeles Lakers",
	"MEM": "Memphis",
	"MIA": "Miami",
	"MIL": "Milwaukee",
	"MIN": "Minnesota",
	"NOP": "New Orleans",
	"NYK": "New York",
	"OKC": "Oklahoma City",
	"ORL": "Orlando",
	"PHI": "Philadelphia",
	"PHX": "Phoenix",
	"POR": "Portland",
	"SAC": "Sacramento",
	"SAS": "San Antonio",
	"TOR": "Toronto",
	"UTA": "Utah",
	"WAS": "Washington",
}

// leagueSize is the expected number of franchises.
const leagueSize = 30

// Validate checks the directory invariants at startup: exactly 30 entries,
// three-letter codes, non-empty city names.
func Validate() error {
	if len(directory) != leagueSize {
		return fmt.Errorf("team directory has %d entries, want %d", len(directory), leagueSize)
	}
	for code, city := range directory {
		if len(code) != 3 {
			return fmt.Errorf("invalid team code %q", code)
		}
		if city == "" {
			return fmt.Errorf("team code %q has empty city", code)
		}
	}
	return nil
}

// CityForCode resolves a team code to its canonical city name.
func CityForCode(code string) (string, error) {
	city, ok := directory[code]
	if !ok {
		return "", fmt.Errorf("%w: team code %q", models.ErrUnknownEntity, code)
	}
	return city, nil
}

// CodeForCity resolves a canonical city name back to its team code.
func CodeForCity(city string) (string, error) {
	for code, c := range directory {
		if c == city {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: city %q", models.ErrUnknownEntity, city)
}

// IsKnownCode reports whether a team code is in the directory.
func IsKnownCode(code string) bool {
	_, ok := directory[code]
	return ok
}

// Codes returns all team codes. Order is unspecified.
func Codes() []string {
	codes := make([]string, 0, len(directory))
	for code := range directory {
		codes = append(codes, code)
	}
	return codes
}

// SeasonYear converts a numeric season identifier to the season year string
// used when querying season aggregates, e.g. 22023 -> "2023-24".
func SeasonYear(seasonID int) (string, error) {
	year := seasonID % 10000
	if year < 1946 || year > 2100 {
		return "", fmt.Errorf("%w: season id %d", models.ErrUnknownEntity, seasonID)
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100), nil
}
