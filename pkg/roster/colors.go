package roster

import (
	"strings"

	"github.com/brandonnguyen11/rosterAI/pkg/models"
)

// Fallback colors for positions and teams missing from the tables below.
const (
	DefaultPositionColor = "#20FC8F"
	DefaultTeamColor     = "#6b7280"
)

// positionColors is the single position to color table. Anything that styles
// by position calls ColorFor instead of keeping its own copy.
var positionColors = map[string]string{
	models.PositionQB:   "#6dff01",
	models.PositionRB:   "#ff006e",
	models.PositionWR:   "#00f0ff",
	models.PositionTE:   "#ff9d00",
	models.PositionK:    "#ffe600",
	models.PositionDEF:  "#8000ff",
	models.PositionFLEX: "#00ff85",
}

var teamColors = map[string]string{
	"ARI": "#97233F", "ATL": "#A71930", "BAL": "#241773", "BUF": "#00338D",
	"CAR": "#0085CA", "CHI": "#0B162A", "CIN": "#FB4F14", "CLE": "#311D00",
	"DAL": "#003594", "DEN": "#FB4F14", "DET": "#0076B6", "GB": "#203731",
	"HOU": "#03202F", "IND": "#002C5F", "JAX": "#006778", "KC": "#E31837",
	"LAC": "#0080C6", "LAR": "#003594", "LV": "#000000", "MIA": "#008E97",
	"MIN": "#4F2683", "NE": "#002244", "NO": "#D3BC8D", "NYG": "#0B2265",
	"NYJ": "#125740", "PHI": "#004C54", "PIT": "#FFB612", "SEA": "#002244",
	"SF": "#AA0000", "TB": "#D50A0A", "TEN": "#0C2340", "WAS": "#773141",
}

// ColorFor returns the display color for a position. The lookup goes through
// the synonym table first, so "dst" and "DEF" share a color.
func ColorFor(position string) string {
	if c, ok := positionColors[models.CanonicalPosition(position)]; ok {
		return c
	}
	return DefaultPositionColor
}

// TeamColorFor returns the primary color for a team abbreviation.
func TeamColorFor(team string) string {
	if c, ok := teamColors[strings.ToUpper(strings.TrimSpace(team))]; ok {
		return c
	}
	return DefaultTeamColor
}
