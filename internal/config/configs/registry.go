package configs

import "time"

// Registry holds the fixed parameters of the funding registry.
type Registry struct {
	// MinimumDeposit is the stake held from every campaign creator, in
	// integer currency units.
	MinimumDeposit uint64 `env:"MINIMUM_DEPOSIT" envDefault:"100"`
	// MaxActive bounds the number of concurrently active campaigns.
	MaxActive int `env:"MAX_ACTIVE" envDefault:"100"`
	// MaxNameLen bounds the campaign name length in bytes.
	MaxNameLen int `env:"MAX_NAME_LEN" envDefault:"64"`
	// MaxDescLen bounds the campaign description length in bytes.
	MaxDescLen int `env:"MAX_DESC_LEN" envDefault:"1024"`
	// MaxLinkLen bounds the campaign link length in bytes.
	MaxLinkLen int `env:"MAX_LINK_LEN" envDefault:"256"`
	// SweepInterval is how often the finalization sweep runs.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"6s"`
}
