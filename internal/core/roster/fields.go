// Package roster parses assignment rosters (Excel or CSV) into normalized
// records: it locates columns from loosely written headers, disambiguates
// birth-date formats and sorts people the way a French reader expects.
package roster

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Field identifies a roster column.
type Field string

const (
	FieldFirstNames      Field = "first_names"
	FieldLastName        Field = "last_name"
	FieldBirthDate       Field = "birth_date"
	FieldBirthPlace      Field = "birth_place"
	FieldDiploma         Field = "diploma"
	FieldDiplomaPlace    Field = "diploma_place"
	FieldAssignmentPlace Field = "assignment_place"
	FieldDecreeNumber    Field = "decree_number"
)

// fieldOrder is the order in which columns are resolved and row errors reported.
var fieldOrder = []Field{
	FieldFirstNames,
	FieldLastName,
	FieldBirthDate,
	FieldBirthPlace,
	FieldDiploma,
	FieldDiplomaPlace,
	FieldAssignmentPlace,
	FieldDecreeNumber,
}

// optionalFields may be absent or blank without failing the row.
var optionalFields = map[Field]bool{
	FieldDiplomaPlace: true,
	FieldDecreeNumber: true,
}

// Aliases maps each field to the header spellings that identify it, in
// priority order.
type Aliases map[Field][]string

// DefaultAliases returns the built-in header spellings.
func DefaultAliases() Aliases {
	return Aliases{
		FieldFirstNames: {"prénom(s)", "prénoms", "prénom", "prenom", "firstname"},
		FieldLastName:   {"nom", "lastname", "name"},
		FieldBirthDate:  {"date de naissance", "date naissance", "date_naissance", "birthdate"},
		FieldBirthPlace: {"lieu de naissance", "lieu naissance", "lieu_naissance", "birthplace"},
		FieldDiploma: {
			"diplôme", "diplome", "niveau diplôme", "niveau diplome", "niveau_diplome", "diploma_level",
		},
		FieldDiplomaPlace: {
			"lieu d'obtention du diplôme", "lieu d'obtention du diplome",
			"lieu obtention diplôme", "lieu obtention diplome",
			"établissement", "etablissement", "institution",
		},
		FieldAssignmentPlace: {
			"lieu d'affectation", "lieu affectation", "institution affectation",
			"institution_affectation", "assignment",
		},
		FieldDecreeNumber: {
			"numéro de décret", "numero de decret", "numéro décret", "numero decret", "decree_number",
		},
	}
}

// LoadAliases reads additional header spellings from a YAML file keyed by
// field name, e.g.
//
//	last_name: [surname, "nom de famille"]
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}

	out := make(Aliases, len(raw))
	for key, names := range raw {
		f := Field(key)
		if !isKnownField(f) {
			return nil, fmt.Errorf("parse aliases: unknown field %q", key)
		}
		out[f] = names
	}
	return out, nil
}

func isKnownField(f Field) bool {
	for _, known := range fieldOrder {
		if known == f {
			return true
		}
	}
	return false
}

// Matcher resolves header rows to column positions.
type Matcher struct {
	aliases map[Field][]string // normalized
}

// NewMatcher builds a Matcher from the default aliases, extended with extra.
// Extra spellings are tried after the built-in ones.
func NewMatcher(extra Aliases) *Matcher {
	merged := DefaultAliases()
	for f, names := range extra {
		merged[f] = append(merged[f], names...)
	}

	m := &Matcher{aliases: make(map[Field][]string, len(merged))}
	for f, names := range merged {
		normalized := make([]string, 0, len(names))
		for _, n := range names {
			normalized = append(normalized, normalizeHeader(n))
		}
		m.aliases[f] = normalized
	}
	return m
}

// Resolve returns the column index of every field, -1 when absent.
// For each field the first alias present among the headers wins.
func (m *Matcher) Resolve(headers []string) map[Field]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	columns := make(map[Field]int, len(fieldOrder))
	for _, f := range fieldOrder {
		columns[f] = -1
		for _, alias := range m.aliases[f] {
			if idx := indexOf(normalized, alias); idx != -1 {
				columns[f] = idx
				break
			}
		}
	}
	return columns
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v != "" && v == target {
			return i
		}
	}
	return -1
}

var headerReplacer = strings.NewReplacer(
	"_", " ",
	"\u2019", "'",
	"\u2018", "'",
	"`", "'",
	"\ufeff", "",
)

// normalizeHeader lowercases, strips accents, unifies apostrophes and
// underscores and collapses whitespace.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = foldAccents(s)
	s = headerReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// foldAccents removes combining marks. Transformers keep state, so a fresh
// chain is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
