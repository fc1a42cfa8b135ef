package core

import (
	"regexp"
	"sort"
	"strings"
)

// modTokenPattern matches a modification written either as a codename, "(Oxidation)",
// or as an accession, "(UniMod:35)".
var modTokenPattern = regexp.MustCompile(`\(\w+\)|\(\w+[:]\d+\)`)

// UnpairedID marks the missing side of a codename mapping.
const UnpairedID int64 = -1

// PeptideRecord is a row of the OSW PEPTIDE table.
type PeptideRecord struct {
	ID               int64
	ModifiedSequence string
}

// CodenameMapping links the codename-notated and the UniMod-notated PEPTIDE rows of
// the same peptidoform.
type CodenameMapping struct {
	CodenameID int64
	UnimodID   int64
}

// NormalizeModifiedSequence replaces every modification token with "(@)" so that
// the same peptidoform compares equal in either notation.
func NormalizeModifiedSequence(seq string) string {
	return modTokenPattern.ReplaceAllString(seq, "(@)")
}

// IsUniModSequence reports whether the sequence uses UniMod accession notation.
func IsUniModSequence(seq string) bool {
	return strings.Contains(seq, "UniMod")
}

// BuildCodenameMapping groups peptides by normalized sequence and pairs the codename
// row with the UniMod row of each group. A side with no row gets UnpairedID. When a
// group holds several rows of one notation the lowest ID wins; IDs are never
// averaged, so every mapped ID names an existing PEPTIDE row.
func BuildCodenameMapping(peptides []PeptideRecord) []CodenameMapping {
	type pair struct {
		codename int64
		unimod   int64
	}

	groups := make(map[string]*pair)
	var keys []string

	for _, p := range peptides {
		key := NormalizeModifiedSequence(p.ModifiedSequence)
		g, ok := groups[key]
		if !ok {
			g = &pair{codename: UnpairedID, unimod: UnpairedID}
			groups[key] = g
			keys = append(keys, key)
		}

		if IsUniModSequence(p.ModifiedSequence) {
			if g.unimod == UnpairedID || p.ID < g.unimod {
				g.unimod = p.ID
			}
		} else {
			if g.codename == UnpairedID || p.ID < g.codename {
				g.codename = p.ID
			}
		}
	}

	sort.Strings(keys)
	mappings := make([]CodenameMapping, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		mappings = append(mappings, CodenameMapping{CodenameID: g.codename, UnimodID: g.unimod})
	}
	return mappings
}
