package timestamp

import "testing"

func TestResolveCompactPresets(t *testing.T) {
	const epoch = 1700000000 // 2023-11-14T22:13:20Z
	cases := []struct{ pattern, want string }{
		{presetCompactDate, "20231114"},
		{presetCompactDatetime, "20231114221320"},
	}
	for _, c := range cases {
		got, err := Resolve(c.pattern, epoch)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.pattern, err)
		}
		if got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.pattern, got, c.want)
		}
	}
}

func TestResolveTokenPatterns(t *testing.T) {
	const epoch = 1700000000 // 2023-11-14T22:13:20Z, ISO week 46
	cases := []struct{ pattern, want string }{
		{"YYYY0M0D", "20231114"},
		{"YYYY", "2023"},
		{"YY", "23"},
		{"0M", "11"},
		{"MM", "11"},
		{"0H0m0S", "221320"},
		{"WW", "46"},
		{"0W", "46"},
	}
	for _, c := range cases {
		got, err := Resolve(c.pattern, epoch)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.pattern, err)
		}
		if got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.pattern, got, c.want)
		}
	}
}

func TestResolveStrftime(t *testing.T) {
	const epoch = 1700000000
	cases := []struct{ pattern, want string }{
		{"%Y-%m-%d", "2023-11-14"},
		{"%H:%M:%S", "22:13:20"},
		{"%-m/%-d", "11/14"},
		{"%Y: 100%%", "2023: 100%"},
	}
	for _, c := range cases {
		got, err := Resolve(c.pattern, epoch)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.pattern, err)
		}
		if got != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.pattern, got, c.want)
		}
	}
}

func TestResolveRejectsUnknownTokenAndEmptyPattern(t *testing.T) {
	// Tokens outside the closed preset set fail, including runs of the
	// wrong length ("Y", "YYY") and over-consumed padded runs ("0MM",
	// "YYYY0MM0DD" tokenizing to ["YYYY", "0MM", "0DD"]).
	for _, pattern := range []string{
		"", "Q", "0", "0Q",
		"Y", "YYY", "0MM", "0DD", "0YYYY",
		"YYYY0MM0DD", "YYYY-0M",
	} {
		if _, err := Resolve(pattern, 1700000000); err == nil {
			t.Errorf("Resolve(%q): expected error", pattern)
		}
	}
}

func TestResolveRejectsOutOfRangeEpoch(t *testing.T) {
	for _, epoch := range []int64{-62135596801, 253402300800} {
		if _, err := Resolve(presetCompactDate, epoch); err == nil {
			t.Errorf("Resolve(_, %d): expected error", epoch)
		}
	}
}
