package normalization

import "testing"

func TestResolver_ExactAndUnique(t *testing.T) {
	index := BuildNameIndex([]string{"Sector A", "Sector B"})
	resolver := NewResolver(index)

	tests := []struct {
		name     string
		target   string
		kind     MatchKind
		resolved string
	}{
		{"verbatim name", "Sector A", MatchExact, "Sector A"},
		{"trailing space", "Sector A ", MatchUnique, "Sector A"},
		{"different case", "sector a", MatchUnique, "Sector A"},
		{"bidi mark", "Sector B‏", MatchUnique, "Sector B"},
		{"unknown name", "Sector C", MatchNone, ""},
		{"empty target", "", MatchNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolver.Resolve(tt.target)
			if result.Kind != tt.kind {
				t.Fatalf("Resolve(%q).Kind = %q, want %q", tt.target, result.Kind, tt.kind)
			}
			if result.Name != tt.resolved {
				t.Errorf("Resolve(%q).Name = %q, want %q", tt.target, result.Name, tt.resolved)
			}
		})
	}
}

func TestResolver_SecondaryPass(t *testing.T) {
	// "Area1" и "A rea1" совпадают только после удаления внутренних пробелов
	index := BuildNameIndex([]string{"Area1"})
	resolver := NewResolver(index)

	result := resolver.Resolve("A rea1")
	if result.Kind != MatchUnique {
		t.Fatalf("Kind = %q, want %q", result.Kind, MatchUnique)
	}
	if result.Name != "Area1" {
		t.Errorf("Name = %q, want %q", result.Name, "Area1")
	}
}

func TestResolver_Ambiguous(t *testing.T) {
	index := BuildNameIndex([]string{"Area 1", "Area1"})
	resolver := NewResolver(index)

	result := resolver.Resolve("A rea1")
	if result.Kind != MatchAmbiguous {
		t.Fatalf("Kind = %q, want %q", result.Kind, MatchAmbiguous)
	}

	// Кандидаты в порядке вставки индекса
	expected := []string{"Area 1", "Area1"}
	if len(result.Candidates) != len(expected) {
		t.Fatalf("got %d candidates, want %d", len(result.Candidates), len(expected))
	}
	for i, want := range expected {
		if result.Candidates[i] != want {
			t.Errorf("Candidates[%d] = %q, want %q", i, result.Candidates[i], want)
		}
	}
}

func TestResolver_Deterministic(t *testing.T) {
	index := BuildNameIndex([]string{"Area 1", "Area1", "Area  1 extra"})
	resolver := NewResolver(index)

	first := resolver.Resolve("A rea1")
	for i := 0; i < 10; i++ {
		again := resolver.Resolve("A rea1")
		if again.Kind != first.Kind || len(again.Candidates) != len(first.Candidates) {
			t.Fatal("Resolve is not deterministic")
		}
		for j := range again.Candidates {
			if again.Candidates[j] != first.Candidates[j] {
				t.Fatal("candidate order is not deterministic")
			}
		}
	}
}

func TestBuildNameIndex_DuplicateKeys(t *testing.T) {
	// "Area 1" и "area  1" различаются только пробелами и регистром
	index := BuildNameIndex([]string{"Area 1", "area  1", "Area 2"})

	collisions := index.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("got %d collisions, want 1", len(collisions))
	}
	if collisions[0].First != "Area 1" || collisions[0].Second != "area  1" {
		t.Errorf("collision = %+v, want first %q second %q", collisions[0], "Area 1", "area  1")
	}

	// Первое встреченное имя закрепляется за ключом
	resolver := NewResolver(index)
	result := resolver.Resolve("area 1")
	if !result.Matched() || result.Name != "Area 1" {
		t.Errorf("Resolve after collision = %+v, want match on %q", result, "Area 1")
	}

	if index.Len() != 2 {
		t.Errorf("Len() = %d, want 2", index.Len())
	}
}

func TestBuildNameIndex_SkipsBlankNames(t *testing.T) {
	index := BuildNameIndex([]string{"", "  ", "Sector A"})
	if index.Len() != 1 {
		t.Errorf("Len() = %d, want 1", index.Len())
	}
	names := index.Names()
	if len(names) != 1 || names[0] != "Sector A" {
		t.Errorf("Names() = %v, want [Sector A]", names)
	}
}
