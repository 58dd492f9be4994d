package metrics

import (
	"context"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
)

const (
	fallbackEncoding = "cl100k_base"
	// per-message framing overhead used by the chat completions format
	tokensPerMessage = 3
	tokensPerReply   = 3
)

// TokenCounter estimates prompt tokens for chat messages. The encoder is only
// ever loaded by Warm; until that succeeds the counter uses a
// four-characters-per-token approximation, so counting never does I/O.
type TokenCounter struct {
	model  string
	loader func(model string) (*tiktoken.Tiktoken, error)

	warming atomic.Bool
	enc     atomic.Pointer[tiktoken.Tiktoken]
}

// NewTokenCounter builds a counter for the given model name.
func NewTokenCounter(model string) *TokenCounter {
	return &TokenCounter{model: model, loader: loadEncoding}
}

func loadEncoding(model string) (*tiktoken.Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err == nil {
		return enc, nil
	}
	return tiktoken.GetEncoding(fallbackEncoding)
}

// Warm loads the encoder in the background and waits until it is ready or ctx
// is done. The tiktoken download ignores contexts, so on timeout the load keeps
// running and the encoder is picked up whenever it finishes.
func (c *TokenCounter) Warm(ctx context.Context) error {
	if c == nil || c.enc.Load() != nil || !c.warming.CompareAndSwap(false, true) {
		return nil
	}
	done := make(chan error, 1)
	go func() {
		enc, err := c.loader(c.model)
		if err == nil && enc != nil {
			c.enc.Store(enc)
		} else {
			c.warming.Store(false)
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CountMessages returns the estimated prompt size for the message contents and
// whether the estimate came from the real tokenizer.
func (c *TokenCounter) CountMessages(contents ...string) (int, bool) {
	if c == nil {
		return 0, false
	}
	enc := c.enc.Load()
	total := tokensPerReply
	for _, content := range contents {
		total += tokensPerMessage
		if enc == nil {
			total += (len(content) + 3) / 4
			continue
		}
		total += len(enc.Encode(content, nil, nil))
	}
	return total, enc != nil
}
