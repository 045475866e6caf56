package dataset

import "strings"

// Columns names the dataset's well-known columns as they appear in the
// header row. Anything not listed here passes through untouched.
type Columns struct {
	Code        string // geographic unit identifier, kept as text
	Year        string // observation year
	Count       string // incident count measure
	Population  string // population measure
	Region      string // region label, source of the join key
	Department  string // department label
	SizeBracket string // commune size bracket
	Category    string // indicator category
}

// DefaultColumns returns the column names of the published commune-level
// crime dataset.
func DefaultColumns() Columns {
	return Columns{
		Code:        "CODGEO_2025",
		Year:        "annee",
		Count:       "nombre",
		Population:  "insee_pop",
		Region:      "nom_region",
		Department:  "nom_departement",
		SizeBracket: "tranche_taille",
		Category:    "indicateur",
	}
}

// KeyColumn is the derived join-key column name for a given region column.
func (c Columns) KeyColumn() string {
	return c.Region + "_norm"
}

// categoryCandidates lists header spellings commonly used for the detailed
// offence/indicator label, in priority order.
var categoryCandidates = []string{
	"classe_infraction", "classe", "categorie", "cat", "type_infraction",
	"type", "nature", "indicateur", "libelle", "infractions", "infraction",
}

// communeCandidates lists header spellings commonly used for the commune
// label, in priority order.
var communeCandidates = []string{
	"nom_commune", "commune", "libelle_commune", "nom_comm", "ville", "nom_ville",
}

// DetectColumn returns the first header column matching a candidate name,
// compared case-insensitively in candidate priority order. Returns "" when
// nothing matches.
func DetectColumn(header []string, candidates []string) string {
	byLower := make(map[string]string, len(header))
	for _, col := range header {
		lower := strings.ToLower(col)
		if _, ok := byLower[lower]; !ok {
			byLower[lower] = col
		}
	}
	for _, cand := range candidates {
		if col, ok := byLower[strings.ToLower(cand)]; ok {
			return col
		}
	}
	return ""
}

// DetectCategoryColumn guesses which header column carries the detailed
// offence/indicator label.
func DetectCategoryColumn(header []string) string {
	return DetectColumn(header, categoryCandidates)
}

// DetectCommuneColumn guesses which header column carries the commune label.
func DetectCommuneColumn(header []string) string {
	return DetectColumn(header, communeCandidates)
}
