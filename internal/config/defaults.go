package config

const (
	defaultJournalFilename = ".deskplan-rollback.json"
	defaultLockFilename    = ".deskplan.lock"
	defaultPromptSuffix    = ".prompt"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Journal: Journal{
			Filename: defaultJournalFilename,
		},
		Run: Run{
			LockFilename: defaultLockFilename,
		},
		Listing: Listing{
			OpaqueExtensions: []string{".app"},
			PromptSuffix:     defaultPromptSuffix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func (c *Config) normalize() {
	if c.Journal.Filename == "" {
		c.Journal.Filename = defaultJournalFilename
	}
	if c.Run.LockFilename == "" {
		c.Run.LockFilename = defaultLockFilename
	}
	if c.Listing.PromptSuffix == "" {
		c.Listing.PromptSuffix = defaultPromptSuffix
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
