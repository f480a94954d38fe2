package models

import (
	"regexp"
	"strings"
)

// nflTeamNames maps full franchise names and nicknames to their abbreviation.
var nflTeamNames = map[string]string{
	"ARIZONA CARDINALS":     "ARI",
	"ATLANTA FALCONS":       "ATL",
	"BALTIMORE RAVENS":      "BAL",
	"BUFFALO BILLS":         "BUF",
	"CAROLINA PANTHERS":     "CAR",
	"CHICAGO BEARS":         "CHI",
	"CINCINNATI BENGALS":    "CIN",
	"CLEVELAND BROWNS":      "CLE",
	"DALLAS COWBOYS":        "DAL",
	"DENVER BRONCOS":        "DEN",
	"DETROIT LIONS":         "DET",
	"GREEN BAY PACKERS":     "GB",
	"HOUSTON TEXANS":        "HOU",
	"INDIANAPOLIS COLTS":    "IND",
	"JACKSONVILLE JAGUARS":  "JAX",
	"KANSAS CITY CHIEFS":    "KC",
	"LAS VEGAS RAIDERS":     "LV",
	"LOS ANGELES CHARGERS":  "LAC",
	"LOS ANGELES RAMS":      "LAR",
	"MIAMI DOLPHINS":        "MIA",
	"MINNESOTA VIKINGS":     "MIN",
	"NEW ENGLAND PATRIOTS":  "NE",
	"NEW ORLEANS SAINTS":    "NO",
	"NEW YORK GIANTS":       "NYG",
	"NEW YORK JETS":         "NYJ",
	"PHILADELPHIA EAGLES":   "PHI",
	"PITTSBURGH STEELERS":   "PIT",
	"SAN FRANCISCO 49ERS":   "SF",
	"SEATTLE SEAHAWKS":      "SEA",
	"TAMPA BAY BUCCANEERS":  "TB",
	"TENNESSEE TITANS":      "TEN",
	"WASHINGTON COMMANDERS": "WAS",
}

// legacyTeamCodes maps codes used by some providers to the current abbreviation.
var legacyTeamCodes = map[string]string{
	"JAC": "JAX",
	"WSH": "WAS",
	"LA":  "LAR",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"GNB": "GB",
	"KAN": "KC",
	"NWE": "NE",
	"NOR": "NO",
	"SFO": "SF",
	"TAM": "TB",
}

var teamCodePattern = regexp.MustCompile(`^[A-Z]{2,4}$`)

// CanonicalTeam resolves a raw team value to an uppercase abbreviation.
// Full franchise names and legacy codes are mapped; anything that is neither a
// 2-4 letter code nor a known name resolves to DefaultTeam.
func CanonicalTeam(raw string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(raw), " "))
	if key == "" {
		return DefaultTeam
	}
	if code, ok := legacyTeamCodes[key]; ok {
		return code
	}
	if teamCodePattern.MatchString(key) {
		return key
	}
	if code, ok := nflTeamNames[key]; ok {
		return code
	}
	return DefaultTeam
}
