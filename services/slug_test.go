package services

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"First-Time Homebuyer's Guide!", "first-time-homebuyers-guide"},
		{"Buying in Myrtle Beach", "buying-in-myrtle-beach"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"¿Qué pasa? 2024!!", "qu-pasa-2024"},
		{"---already---hyphenated---", "already-hyphenated"},
		{"UPPER case & symbols #1", "upper-case-symbols-1"},
	}

	for _, tc := range cases {
		got := Slugify(tc.in)
		if got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}

		// Idempotence: slugifying a slug is a no-op
		if again := Slugify(got); again != got {
			t.Errorf("Slugify(%q) not idempotent: got %q", got, again)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" buying ", "", "tips", "  "})
	want := []string{"buying", "tips"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
