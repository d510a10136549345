package config

import (
	"github.com/namsral/flag"

	"github.com/domino14/srs_engine/internal/session"
)

type Config struct {
	DBPath     string
	ParamsFile string
	Strategy   string
	LogLevel   string

	MaxNewCards       int
	MaxReviewCards    int
	TimeLimitMinutes  int
	SessionType       string
	IncludeNew        bool
	IncludeDifficult  bool
	PrioritizeOverdue bool
	Shuffle           bool
}

// Load loads the configs from the given arguments
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("srsengine", flag.ContinueOnError)

	fs.StringVar(&c.DBPath, "db-path", "vault.db", "path to the SQLite card vault")
	fs.StringVar(&c.ParamsFile, "params-file", "", "YAML file with a scheduler calibration set; empty uses defaults")
	fs.StringVar(&c.Strategy, "strategy", "fsrs", "scheduling strategy: fsrs or sm2")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level")

	fs.IntVar(&c.MaxNewCards, "max-new-cards", 10, "maximum new cards per session")
	fs.IntVar(&c.MaxReviewCards, "max-review-cards", 50, "maximum due cards per session")
	fs.IntVar(&c.TimeLimitMinutes, "time-limit", 30, "session time limit in minutes")
	fs.StringVar(&c.SessionType, "session-type", "review", "session type: review, learn, cram, test")
	fs.BoolVar(&c.IncludeNew, "include-new", true, "fill leftover budget with never-seen cards")
	fs.BoolVar(&c.IncludeDifficult, "include-difficult", false, "front-load difficult cards")
	fs.BoolVar(&c.PrioritizeOverdue, "prioritize-overdue", true, "present most overdue cards first")
	fs.BoolVar(&c.Shuffle, "shuffle", false, "shuffle the queue after selection")

	return fs.Parse(args)
}

// SessionConfig derives the engine's session budget from the flags.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		MaxNewCards:       c.MaxNewCards,
		MaxReviewCards:    c.MaxReviewCards,
		TimeLimitMinutes:  c.TimeLimitMinutes,
		SessionType:       session.Type(c.SessionType),
		IncludeNew:        c.IncludeNew,
		IncludeDifficult:  c.IncludeDifficult,
		PrioritizeOverdue: c.PrioritizeOverdue,
		ShuffleCards:      c.Shuffle,
	}
}
