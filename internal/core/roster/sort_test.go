package roster

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSortAlphabetically(t *testing.T) {
	records := []Record{
		{LastName: "Zakari", FirstNames: "Ali"},
		{LastName: "Édouard", FirstNames: "Paul"},
		{LastName: "Abdou", FirstNames: "Moussa"},
		{LastName: "abdou", FirstNames: "Aïcha"},
		{LastName: "Dan", FirstNames: "Zeinab"},
	}

	SortAlphabetically(records)

	got := make([]string, 0, len(records))
	for _, r := range records {
		got = append(got, r.LastName+" "+r.FirstNames)
	}
	want := []string{"abdou Aïcha", "Abdou Moussa", "Dan Zeinab", "Édouard Paul", "Zakari Ali"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortAlphabetically_Stable(t *testing.T) {
	records := []Record{
		{LastName: "Issa", FirstNames: "Ali", BirthPlace: "Maradi"},
		{LastName: "Adamou", FirstNames: "Ibrah", BirthPlace: "Dosso"},
		{LastName: "ISSA", FirstNames: "ali", BirthPlace: "Tahoua"},
	}

	SortAlphabetically(records)

	if records[1].BirthPlace != "Maradi" || records[2].BirthPlace != "Tahoua" {
		t.Fatalf("equal keys must keep input order, got %+v", records)
	}
}

func TestToDisplay(t *testing.T) {
	records := []Record{
		{LastName: "Dupont", FirstNames: "Jean", BirthDate: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC)},
		{LastName: "Martin", FirstNames: "Marie", BirthDate: time.Date(1996, 7, 22, 0, 0, 0, 0, time.UTC), DecreeNumber: "D-2"},
	}

	rows := ToDisplay(records, "D-1")

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != 1 || rows[1].ID != 2 {
		t.Fatalf("expected sequential ids, got %d, %d", rows[0].ID, rows[1].ID)
	}
	if rows[0].DecreeNumber != "D-1" {
		t.Fatalf("expected fallback decree number, got %q", rows[0].DecreeNumber)
	}
	if rows[1].DecreeNumber != "D-2" {
		t.Fatalf("expected row decree number to be kept, got %q", rows[1].DecreeNumber)
	}
	if rows[0].BirthDate != "1995-03-15" {
		t.Fatalf("unexpected birth date %q", rows[0].BirthDate)
	}
}
