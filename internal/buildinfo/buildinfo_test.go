package buildinfo

import "testing"

func TestShortPrefersVersion(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "dev", "unknown", "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short() = %q, want dev", got)
	}
	Commit = "abc123"
	if got := Short(); got != "abc123" {
		t.Fatalf("Short() = %q, want abc123", got)
	}
	Version = "v0.3.0"
	if got := Short(); got != "v0.3.0" {
		t.Fatalf("Short() = %q, want v0.3.0", got)
	}
	Date = "2026-10-01"
	if got := Banner("wavegen"); got != "wavegen v0.3.0 (2026-10-01)" {
		t.Fatalf("Banner() = %q", got)
	}
}
