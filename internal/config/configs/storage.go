package configs

// Storage selects and parameterises the registry state backend.
type Storage struct {
	// Backend is one of "memory", "bolt" or "postgres".
	Backend string `env:"BACKEND" envDefault:"bolt"`
	// BoltPath is the database file used by the bolt backend.
	BoltPath string `env:"BOLT_PATH" envDefault:"registry.db"`
	// EventJournalPath, when non-empty, enables the append-only bolt
	// event journal at the given file.
	EventJournalPath string `env:"EVENT_JOURNAL_PATH" envDefault:""`
}
