package version

// Set at build time via -ldflags when releasing; defaults are for dev runs.
var (
	AppName   = "server-muse"
	Version   = "dev"
	BuildDate = "unknown"
)
