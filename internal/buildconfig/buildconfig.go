package buildconfig

import "fmt"

// Set with -ldflags "-X github.com/Harshitk-cp/reason/internal/buildconfig.version=..."
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String is the one-line form printed by `reason version`.
func String() string {
	s := fmt.Sprintf("reason %s (%s)", version, commit)
	if buildDate != "" {
		s += " built " + buildDate
	}
	return s
}
