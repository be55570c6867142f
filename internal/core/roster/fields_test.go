package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatcher_Resolve(t *testing.T) {
	m := NewMatcher(nil)

	got := m.Resolve([]string{
		"  NOM ",
		"Prenom",
		"DATE_DE_NAISSANCE",
		"Lieu de naissance",
		"Diplome",
		"Lieu d\u2019affectation",
	})

	want := map[Field]int{
		FieldLastName:        0,
		FieldFirstNames:      1,
		FieldBirthDate:       2,
		FieldBirthPlace:      3,
		FieldDiploma:         4,
		FieldAssignmentPlace: 5,
		FieldDiplomaPlace:    -1,
		FieldDecreeNumber:    -1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcher_Resolve_AliasPriority(t *testing.T) {
	m := NewMatcher(nil)

	got := m.Resolve([]string{"Prénom", "Prénoms", "Name", "Nom"})
	if got[FieldFirstNames] != 1 {
		t.Fatalf("expected prénoms to win over prénom, got column %d", got[FieldFirstNames])
	}
	if got[FieldLastName] != 3 {
		t.Fatalf("expected nom to win over name, got column %d", got[FieldLastName])
	}
}

func TestMatcher_Resolve_BOMHeader(t *testing.T) {
	got := NewMatcher(nil).Resolve([]string{"\ufeffNom", "Numéro de décret"})
	if got[FieldLastName] != 0 {
		t.Fatalf("expected BOM to be ignored, got column %d", got[FieldLastName])
	}
	if got[FieldDecreeNumber] != 1 {
		t.Fatalf("expected decree number column 1, got %d", got[FieldDecreeNumber])
	}
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(path, []byte("last_name: [surname, \"nom de famille\"]\n"), 0o600); err != nil {
		t.Fatalf("write aliases: %v", err)
	}

	extra, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases returned error: %v", err)
	}

	got := NewMatcher(extra).Resolve([]string{"Prénom", "Nom de famille"})
	if got[FieldLastName] != 1 {
		t.Fatalf("expected extra alias to resolve, got column %d", got[FieldLastName])
	}
}

func TestLoadAliases_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	if err := os.WriteFile(path, []byte("nickname: [surnom]\n"), 0o600); err != nil {
		t.Fatalf("write aliases: %v", err)
	}

	if _, err := LoadAliases(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
