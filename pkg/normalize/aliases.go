package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field identifies a canonical PlayerRecord field.
type Field string

const (
	FieldPlayerName      Field = "playerName"
	FieldTeam            Field = "team"
	FieldPosition        Field = "position"
	FieldSlot            Field = "slot"
	FieldOpponent        Field = "opponent"
	FieldProjectedPoints Field = "projectedPoints"
)

// FieldAliases lists the source headers that may hold one field, highest priority first.
type FieldAliases struct {
	Field   Field
	Aliases []string
}

// DefaultAliases is the built-in alias table. Order matters twice over: fields
// are resolved in this order, and within a field the first present, non-empty
// alias wins. Slot is deliberately the last resort for position since some
// exports only carry the lineup slot.
func DefaultAliases() []FieldAliases {
	return []FieldAliases{
		{Field: FieldPlayerName, Aliases: []string{"playerName", "Player", "Name", "Player Name", "Full Name"}},
		{Field: FieldTeam, Aliases: []string{"team", "Team", "Tm", "NFL Team", "Pro Team"}},
		{Field: FieldPosition, Aliases: []string{"position", "POS", "Pos", "Eligible Position", "Slot"}},
		{Field: FieldSlot, Aliases: []string{"Slot", "Roster Slot", "Lineup Slot", "Status"}},
		{Field: FieldOpponent, Aliases: []string{"opponent", "Opponent", "Opp", "Matchup"}},
		{Field: FieldProjectedPoints, Aliases: []string{"projectedPoints", "Proj", "Projected", "Projected Points", "Proj Pts", "FPTS"}},
	}
}

// foldHeader reduces a header to the form used for matching: lowercase with
// spaces, underscores, hyphens and dots removed.
func foldHeader(h string) string {
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch r {
		case ' ', '\t', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// aliasFile is the YAML shape accepted by LoadAliasFile:
//
//	aliases:
//	  playerName: ["Athlete"]
//	  projectedPoints: ["Pts Proj"]
type aliasFile struct {
	Aliases map[Field][]string `yaml:"aliases"`
}

// LoadAliasFile reads extra header aliases from a YAML file.
// An empty path returns no extras.
func LoadAliasFile(path string) (map[Field][]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	known := make(map[Field]bool)
	for _, fa := range DefaultAliases() {
		known[fa.Field] = true
	}
	for field := range f.Aliases {
		if !known[field] {
			return nil, fmt.Errorf("alias file references unknown field %q", field)
		}
	}

	return f.Aliases, nil
}

// mergeAliases appends extras after the built-in aliases of each field,
// dropping entries that fold to an alias already present.
func mergeAliases(base []FieldAliases, extra map[Field][]string) []FieldAliases {
	merged := make([]FieldAliases, 0, len(base))
	for _, fa := range base {
		seen := make(map[string]bool)
		aliases := make([]string, 0, len(fa.Aliases)+len(extra[fa.Field]))
		for _, a := range append(append([]string{}, fa.Aliases...), extra[fa.Field]...) {
			key := foldHeader(a)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			aliases = append(aliases, a)
		}
		merged = append(merged, FieldAliases{Field: fa.Field, Aliases: aliases})
	}
	return merged
}
