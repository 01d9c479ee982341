package version

// Version is set at build time with -ldflags.
var Version = "0.1.0-dev"

// GitCommit is the commit the binary was built from, if known.
var GitCommit = ""

// FullVersion returns the version with the commit appended.
func FullVersion() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
