package roster

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortAlphabetically orders records by last name then first names using
// French collation, ignoring case and accents. Equal keys keep their input
// order. The slice is sorted in place.
func SortAlphabetically(records []Record) {
	// A Collator is not safe for concurrent use.
	c := collate.New(language.French, collate.Loose)

	sort.SliceStable(records, func(i, j int) bool {
		if cmp := c.CompareString(records[i].LastName, records[j].LastName); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(records[i].FirstNames, records[j].FirstNames) < 0
	})
}

// DisplayRow is a record as shown back to the administrator after an import.
type DisplayRow struct {
	ID              int    `json:"id"`
	LastName        string `json:"last_name"`
	FirstNames      string `json:"first_names"`
	BirthDate       string `json:"birth_date"`
	BirthPlace      string `json:"birth_place"`
	Diploma         string `json:"diploma"`
	DiplomaPlace    string `json:"diploma_place"`
	AssignmentPlace string `json:"assignment_place"`
	DecreeNumber    string `json:"decree_number"`
}

// ToDisplay numbers records from 1 and fills a missing decree number with
// fallback.
func ToDisplay(records []Record, fallback string) []DisplayRow {
	rows := make([]DisplayRow, 0, len(records))
	for i, r := range records {
		number := r.DecreeNumber
		if number == "" {
			number = fallback
		}
		rows = append(rows, DisplayRow{
			ID:              i + 1,
			LastName:        r.LastName,
			FirstNames:      r.FirstNames,
			BirthDate:       r.BirthDate.Format(DateLayout),
			BirthPlace:      r.BirthPlace,
			Diploma:         r.Diploma,
			DiplomaPlace:    r.DiplomaPlace,
			AssignmentPlace: r.AssignmentPlace,
			DecreeNumber:    number,
		})
	}
	return rows
}
