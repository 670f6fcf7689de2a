package storefront

import "testing"

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"9991234567":         "+7 (999) 123-45-67",
		"89991234567":        "+7 (999) 123-45-67",
		"+7 999 123 45 67":   "+7 (999) 123-45-67",
		"7999":               "+7 (999)",
		"79":                 "+7 (9",
		"":                   "",
		"+7 (999) 123-45-67": "+7 (999) 123-45-67",
	}
	for input, want := range cases {
		if got := FormatPhone(input); got != want {
			t.Fatalf("FormatPhone(%q) want %q got %q", input, want, got)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+7 (999) 123-45-67": true,
		"89991234567":        true,
		"9991234567":         false,
		"+7 (999) 123-45":    false,
		"799912345678":       false,
	}
	for input, want := range cases {
		if got := IsValidPhone(input); got != want {
			t.Fatalf("IsValidPhone(%q) want %v got %v", input, want, got)
		}
	}
	if !IsValidPhone(FormatPhone("9991234567")) {
		t.Fatalf("formatted 10-digit input should be valid")
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("8 (999) 123-45-67"); got != "79991234567" {
		t.Fatalf("unexpected normalized phone %q", got)
	}
}
