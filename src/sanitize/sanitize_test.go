package sanitize

import "testing"

func TestSanitizeUInt(t *testing.T) {
	cases := []struct{ in, want string }{
		{"123", "123"},
		{"007", "7"},
		{"  42  ", "42"},
		{"0", "0"},
		{"", ""},
		{"12a", ""},
		{"-5", ""},
	}
	for _, c := range cases {
		if got := UIntPreset.Sanitize(c.in); got != c.want {
			t.Errorf("UIntPreset.Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeSemverStr(t *testing.T) {
	cases := []struct{ in, want string }{
		{"feature/FOO-123", "feature.FOO.123"},
		{"hot--fix__branch", "hot.fix.branch"},
		{"  leading-and-trailing  ", "leading.and.trailing"},
		{"release/01.02", "release.1.2"},
	}
	for _, c := range cases {
		if got := SemverStr.Sanitize(c.in); got != c.want {
			t.Errorf("SemverStr.Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizePEP440LocalStrLowercases(t *testing.T) {
	if got := PEP440LocalStr.Sanitize("Feature/ABC"); got != "feature.abc" {
		t.Errorf("PEP440LocalStr.Sanitize = %q, want %q", got, "feature.abc")
	}
}

func TestSanitizeMaxLengthTruncates(t *testing.T) {
	s := Sanitizer{Target: Str, Separator: ptr("."), MaxLength: ptr(5)}
	if got := s.Sanitize("abcdefgh"); got != "abcde" {
		t.Errorf("Sanitize with MaxLength = %q, want %q", got, "abcde")
	}
}
