package geodata

import (
	"sort"
	"strings"
)

// NormKey is the reserved property written by Annotate. It is never
// selected as a name field, so annotation cannot collide with source data.
const NormKey = "region_norm"

// defaultNameKey is the fallback when a collection is empty or carries no
// recognizable name property.
const defaultNameKey = "nom"

// nameCandidates lists common name-field spellings in priority order,
// covering case variants and synonyms across published boundary files.
var nameCandidates = []string{
	"nom", "Nom", "NOM",
	"name", "Name", "NAME",
	"region", "REGION",
	"libelle", "LIBELLE",
	"nom_region", "NOM_REGION",
}

// DetectNameKey returns the property field holding the region name.
// Candidates are checked in priority order; failing that, the first
// property (by sorted name, for determinism) whose value is a non-empty
// string wins; failing that, the first property at all; failing that, the
// default field name.
func DetectNameKey(props map[string]any) string {
	for _, k := range nameCandidates {
		if _, ok := props[k]; ok {
			return k
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if k == NormKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := props[k].(string); ok && strings.TrimSpace(s) != "" {
			return k
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return defaultNameKey
}
