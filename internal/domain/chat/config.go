package chat

import "time"

// Config holds runtime knobs for the chat service.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
	// CacheTTL bounds how long answered replies are reused. Zero keeps them
	// until the cache evicts them.
	CacheTTL time.Duration
}
