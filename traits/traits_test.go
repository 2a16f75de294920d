package traits

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		keyword string
		want    Kind
		ok      bool
	}{
		{"dog", Dog, true},
		{"  Cat ", Cat, true},
		{"COW", Cow, true},
		{"falcon", Falcon, true},
		{"lizard", Lizard, true},
		{"zebra", KindUnknown, false},
		{"mutant", KindUnknown, false},
		{"", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			got, ok := ParseKind(tt.keyword)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseKind(%q) = %v, %v; want %v, %v", tt.keyword, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if Mutant.String() != "mutant" {
		t.Errorf("Mutant.String() = %q", Mutant.String())
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("out of range kind should stringify as unknown")
	}
	for _, k := range StaticKinds() {
		if !k.Static() {
			t.Errorf("%v should be static", k)
		}
		if back, ok := ParseKind(k.String()); !ok || back != k {
			t.Errorf("round trip of %v failed", k)
		}
	}
	if Mutant.Static() {
		t.Error("mutant should not be static")
	}
}
