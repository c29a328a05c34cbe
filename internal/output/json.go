package output

import (
	"encoding/json"
	"io"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// JSONFormatter formats cards as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes cards as a JSON array. An empty listing is [].
func (f *JSONFormatter) Format(w io.Writer, cards []stack.CardInfo) error {
	if cards == nil {
		cards = []stack.CardInfo{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cards)
}
