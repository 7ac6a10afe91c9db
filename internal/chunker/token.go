package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncodingModel is the model whose tokenizer bounds chunk sizes.
const DefaultEncodingModel = "text-embedding-ada-002"

// Counter kinds accepted by NewCounter.
const (
	CounterTikToken = "tiktoken"
	CounterWords    = "words"
)

// TokenCounter reports how many tokens text occupies. Implementations must
// be safe for concurrent use and deterministic.
type TokenCounter interface {
	Count(text string) int
}

// TikToken counts BPE tokens the way OpenAI models see them.
type TikToken struct {
	model string
	tke   *tiktoken.Tiktoken
}

// NewTikToken loads the tokenizer used by model.
func NewTikToken(model string) (*TikToken, error) {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding for model %q: %w", model, err)
	}
	return &TikToken{model: model, tke: tke}, nil
}

func (t *TikToken) Count(text string) int {
	return len(t.tke.Encode(text, nil, nil))
}

func (t *TikToken) String() string { return CounterTikToken + ":" + t.model }

// Words approximates tokens with Unicode (UAX #29) word segments, ignoring
// whitespace segments. It needs no tokenizer download.
type Words struct{}

func (Words) String() string { return CounterWords }

func (Words) Count(text string) int {
	n := 0
	for _, seg := range words.SegmentAll([]byte(text)) {
		if strings.TrimFunc(string(seg), unicode.IsSpace) != "" {
			n++
		}
	}
	return n
}

// NewCounter returns the counter named by kind for model.
func NewCounter(kind, model string) (TokenCounter, error) {
	switch kind {
	case "", CounterTikToken:
		if model == "" {
			model = DefaultEncodingModel
		}
		return NewTikToken(model)
	case CounterWords:
		return Words{}, nil
	default:
		return nil, fmt.Errorf("unknown token counter %q (valid: %s, %s)", kind, CounterTikToken, CounterWords)
	}
}
