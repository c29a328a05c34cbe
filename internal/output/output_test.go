package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aurora-ide/aurora-notify/internal/model"
	"github.com/aurora-ide/aurora-notify/internal/stack"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testCards() []stack.CardInfo {
	return []stack.CardInfo{
		{
			ID:        "01HX0000000000000000000002",
			Severity:  model.SeverityError,
			Message:   "Build failed:\nmain.go:42",
			State:     "paused",
			Index:     0,
			Total:     5 * time.Second,
			Remaining: 3210 * time.Millisecond,
			CreatedAt: testNow.Add(-2 * time.Second),
		},
		{
			ID:        "01HX0000000000000000000001",
			Severity:  model.SeveritySuccess,
			Message:   "Saved",
			State:     "visible",
			Index:     1,
			Total:     5 * time.Second,
			Remaining: time.Second,
			CreatedAt: testNow.Add(-5 * time.Minute),
		},
	}
}

func testOptions() FormatterOptions {
	opts := DefaultFormatterOptions()
	opts.Now = testNow
	return opts
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    FormatType
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"ids", FormatIDs, false},
		{"plain", FormatPlain, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "table, plain, json, yaml, ids")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format FormatType
		want   any
	}{
		{FormatTable, &TableFormatter{}},
		{FormatPlain, &PlainFormatter{}},
		{FormatJSON, &JSONFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{FormatIDs, &IDsFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(tt.format, testOptions())
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}

	_, err := NewFormatter("xml", testOptions())
	assert.Error(t, err)
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(testOptions()).Format(&buf, testCards()))

	out := buf.String()
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "01HX0000000000000000000002")
	assert.Contains(t, out, "Build failed: main.go:42", "messages are flattened")
	assert.Contains(t, out, "5 minutes ago")
	assert.Contains(t, out, "3.2s")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(testOptions()).Format(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestTableFormatter_NoHeader(t *testing.T) {
	opts := testOptions()
	opts.NoHeader = true

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(opts).Format(&buf, testCards()))
	assert.NotContains(t, buf.String(), "SEVERITY")
}

func TestPlainFormatter_Format(t *testing.T) {
	f, err := NewPlainFormatter(testOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, testCards()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[1] ⚡ Error (2 seconds ago, 3.2s left) [paused]: Build failed: main.go:42", lines[0])
	assert.Equal(t, "[2] ✔ Success (5 minutes ago, 1s left): Saved", lines[1])
}

func TestPlainFormatter_CustomTemplate(t *testing.T) {
	opts := testOptions()
	opts.Template = "{{.Index}}: {{upper .Card.Severity.String}} {{truncate .Card.Message 5}} {{.Age}}"

	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, testCards()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1: ERROR Bu... 2 seconds ago", lines[0])
	assert.Equal(t, "2: SUCCESS Saved 5 minutes ago", lines[1])
}

func TestPlainFormatter_BadTemplate(t *testing.T) {
	opts := testOptions()
	opts.Template = "{{.Index"

	_, err := NewPlainFormatter(opts)
	assert.ErrorContains(t, err, "failed to parse template")
}

func TestPlainFormatter_TruncateMessage(t *testing.T) {
	opts := testOptions()
	opts.MessageMaxLen = 10

	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, testCards()[:1]))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(buf.String()), "Build f..."))
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, testCards()))

	var result []stack.CardInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, model.SeverityError, result[0].Severity)
	assert.Equal(t, 3210*time.Millisecond, result[0].Remaining)
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, testCards()))

	var result []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "error", result[0]["severity"])
	assert.Equal(t, "Saved", result[1]["message"])
}

func TestIDsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIDsFormatter().Format(&buf, testCards()))
	assert.Equal(t, "01HX0000000000000000000002\n01HX0000000000000000000001\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "héllo", truncate("héllo", 5), "counts runes, not bytes")
}
