package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/vcs2git/vcs2git/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/vcs2git/vcs2git/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/vcs2git/vcs2git/internal/version.Date={{.Date}}
)
