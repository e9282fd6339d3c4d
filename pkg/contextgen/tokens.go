package contextgen

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const defaultTokenizerModel = "gpt-4o"

// TokenCounter estimates how many tokens a piece of text costs in an LLM
// prompt. Counting is an optional statistic; callers must tolerate a
// constructor failure and run without it.
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter returns a tiktoken-backed counter for the given model,
// falling back to the default model when the requested one is unknown.
func NewTokenCounter(model string) (TokenCounter, error) {
	if model == "" {
		model = defaultTokenizerModel
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.EncodingForModel(defaultTokenizerModel)
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer encoding: %w", err)
		}
	}
	return &tiktokenCounter{encoding: encoding}, nil
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.encoding.EncodeOrdinary(text))
}
