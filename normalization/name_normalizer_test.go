package normalization

import "testing"

func TestNormalizeName_BasicCleanup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain name", "Sector A", "sector a"},
		{"leading and trailing spaces", "  Sector A  ", "sector a"},
		{"inner whitespace run", "Sector \t\n A", "sector a"},
		{"case folding", "SECTOR a", "sector a"},
		{"non-breaking space", "Sector A", "sector a"},
		{"only whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeName_FormattingCharacters(t *testing.T) {
	// Имена, различающиеся только невидимыми символами,
	// должны давать одинаковый ключ
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"right-to-left mark", "القطاع A", "القطاع A‏"},
		{"left-to-right mark", "Sector A", "‎Sector A"},
		{"zero width joiner inside", "Sector A", "Sec‍tor A"},
		{"byte order mark", "Sector A", "\uFEFFSector A"},
		{"directional embedding", "Sector A", "‫Sector A‬"},
		{"whitespace and case noise", "Sector A", "  sector   a "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if NormalizeName(tt.a) != NormalizeName(tt.b) {
				t.Errorf("keys differ: %q -> %q, %q -> %q",
					tt.a, NormalizeName(tt.a), tt.b, NormalizeName(tt.b))
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Sector A",
		"  sector B ",
		"القطاع A‏",
		"ΣΕΚΤΟΡ Β", // греческая сигма: фолдинг не сводится к простому lower
		"Straße 12",
	}

	for _, input := range inputs {
		once := NormalizeName(input)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeName_PreservesDistinctNames(t *testing.T) {
	// Нормализация не должна склеивать действительно разные имена
	if NormalizeName("Sector A") == NormalizeName("Sector B") {
		t.Error("distinct names produced the same key")
	}
	if NormalizeName("Area 1") == NormalizeName("Area 2") {
		t.Error("distinct numbered names produced the same key")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \t b \n c "); got != "a b c" {
		t.Errorf("CollapseWhitespace = %q, want %q", got, "a b c")
	}
}
