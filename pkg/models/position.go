package models

import "strings"

// Canonical position tokens.
const (
	PositionQB      = "QB"
	PositionRB      = "RB"
	PositionWR      = "WR"
	PositionTE      = "TE"
	PositionK       = "K"
	PositionDEF     = "DEF"
	PositionFLEX    = "FLEX"
	PositionUnknown = "UNK"
)

// Positions lists the canonical vocabulary in display order.
// PositionUnknown is not part of it; it is the fallback.
var Positions = []string{
	PositionQB,
	PositionRB,
	PositionWR,
	PositionTE,
	PositionFLEX,
	PositionK,
	PositionDEF,
}

// positionSynonyms maps every accepted spelling (uppercased) to its canonical token.
// This is the only synonym table; normalization, classification and insight
// reconciliation all go through CanonicalPosition.
var positionSynonyms = map[string]string{
	"QB":       PositionQB,
	"RB":       PositionRB,
	"HB":       PositionRB,
	"WR":       PositionWR,
	"TE":       PositionTE,
	"K":        PositionK,
	"PK":       PositionK,
	"DEF":      PositionDEF,
	"DST":      PositionDEF,
	"D/ST":     PositionDEF,
	"D":        PositionDEF,
	"FLEX":     PositionFLEX,
	"W/R/T":    PositionFLEX,
	"RB/WR/TE": PositionFLEX,
	"WR/RB/TE": PositionFLEX,
	"W/R":      PositionFLEX,
	"RB/WR":    PositionFLEX,
	"WR/TE":    PositionFLEX,
}

// CanonicalPosition resolves a raw position label to the canonical vocabulary.
// Matching is case-insensitive and ignores surrounding whitespace. Anything not
// in the synonym table resolves to PositionUnknown.
func CanonicalPosition(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := positionSynonyms[key]; ok {
		return canonical
	}
	return PositionUnknown
}

// IsCanonicalPosition reports whether pos is a canonical token or PositionUnknown.
func IsCanonicalPosition(pos string) bool {
	if pos == PositionUnknown {
		return true
	}
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}
