// Package buildinfo carries the version stamped in by the linker:
//
//	-ldflags "-X wavegen/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short picks the most specific identifier available.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// Banner is the first log line at boot.
func Banner(name string) string {
	s := name + " " + Short()
	if Date != "" && Date != "unknown" {
		s += " (" + Date + ")"
	}
	return s
}
