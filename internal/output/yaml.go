package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aurora-ide/aurora-notify/internal/stack"
)

// YAMLFormatter formats cards as a YAML sequence.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes cards as YAML.
func (f *YAMLFormatter) Format(w io.Writer, cards []stack.CardInfo) error {
	if cards == nil {
		cards = []stack.CardInfo{}
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(cards); err != nil {
		return err
	}
	return encoder.Close()
}
