package config

// GlobalFlags contains common flags used across commands
type GlobalFlags struct {
	ConfigPath  string
	Format      string
	DownloadDir string
	Extract     bool
	Concurrency int
	Verbose     bool
	NoColor     bool
}

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
