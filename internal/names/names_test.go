package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José Ramírez", "joseramirez"},
		{"Jose Ramirez", "joseramirez"},
		{"Ramírez, José", "ramirezjose"},
		{"J.D. Martinez", "jdmartinez"},
		{"Travis d'Arnaud", "travisdarnaud"},
		{"Isiah Kiner-Falefa", "isiahkinerfalefa"},
		{"Ronald Acuña Jr.", "ronaldacunajr"},
		{"Max Scherzer*", "maxscherzer"},
		{"  Shohei\tOhtani ", "shoheiohtani"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"José Ramírez",
		"Ramírez, José",
		"Yoán Moncada",
		"Luis Arráez",
		"İsmail Yıldız",
		"Ha-Seong Kim",
		"O'Neil Cruz",
		"already-normalized",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeAny(t *testing.T) {
	if got := NormalizeAny(42); got != "" {
		t.Errorf("expected empty key for non-string input, got %q", got)
	}
	if got := NormalizeAny(nil); got != "" {
		t.Errorf("expected empty key for nil input, got %q", got)
	}
	if got := NormalizeAny("Pete Alonso"); got != "petealonso" {
		t.Errorf("expected petealonso, got %q", got)
	}
}

func TestVariants_TwoTokens(t *testing.T) {
	v := Variants("John Smith")

	for _, key := range []string{"johnsmith", "smithjohn"} {
		if _, ok := v[key]; !ok {
			t.Errorf("expected variant %q in %v", key, v)
		}
	}
	if len(v) != 2 {
		t.Errorf("expected 2 distinct keys (reversal and comma form collapse), got %d: %v", len(v), v)
	}
}

func TestVariants_OtherTokenCounts(t *testing.T) {
	v := Variants("Ronald Acuna Jr.")
	if len(v) != 1 {
		t.Fatalf("expected only the literal form for three tokens, got %v", v)
	}
	if _, ok := v["ronaldacunajr"]; !ok {
		t.Errorf("expected literal key, got %v", v)
	}

	single := Variants("Ichiro")
	if _, ok := single["ichiro"]; !ok || len(single) != 1 {
		t.Errorf("expected single literal key, got %v", single)
	}
}

func TestVariants_CommaOrderingIntersects(t *testing.T) {
	if !Intersects("Smith, John", "John Smith") {
		t.Error("expected 'Smith, John' and 'John Smith' to share a variant")
	}
	if !Intersects("Ramírez, José", "Jose Ramirez") {
		t.Error("expected accented comma form to share a variant with plain form")
	}
	if Intersects("John Smith", "Jane Smith") {
		t.Error("did not expect different first names to intersect")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		key  string
		raw  string
		want bool
	}{
		{"alonsopete", "Pete Alonso", true},
		{"petealonso", "Alonso, Pete", true},
		{"petealonso", "Pete Alonso", true},
		{"alonso", "Pete Alonso", false},
		{"jtrealmuto", "J.T. Realmuto", true},
	}

	for _, tt := range tests {
		if got := Matches(tt.key, tt.raw); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.key, tt.raw, got, tt.want)
		}
	}
}
