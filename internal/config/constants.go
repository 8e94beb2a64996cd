package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./library.db"

	// DefaultMediaDir is where book PDFs are stored on durable storage
	DefaultMediaDir = "./media/pdfs"

	// DefaultCoversDir is where fetched cover images are cached
	DefaultCoversDir = "./media/covers"

	// DefaultPriceCents is the flat price applied to paid books
	DefaultPriceCents = 999
)
