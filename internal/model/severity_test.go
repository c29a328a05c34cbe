package model

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"success", SeveritySuccess},
		{"ERROR", SeverityError},
		{"  warning ", SeverityWarning},
		{"info", SeverityInfo},
		{"", SeverityInfo},
		{"fatal", SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.in))
		})
	}
}

func TestSeverity_Normalize(t *testing.T) {
	assert.Equal(t, SeverityError, SeverityError.Normalize())
	assert.Equal(t, SeverityInfo, Severity("bogus").Normalize())
	assert.False(t, Severity("bogus").Valid())
}

func TestSeverity_Presentation(t *testing.T) {
	assert.Equal(t, "Success", SeveritySuccess.Title())
	assert.Equal(t, "Error", SeverityError.Title())
	assert.Equal(t, "Warning", SeverityWarning.Title())
	assert.Equal(t, "Information", SeverityInfo.Title())
	assert.Equal(t, "Information", Severity("nope").Title())

	assert.Equal(t, "#e74c3c", SeverityError.Accent())
	assert.Equal(t, SeverityInfo.Icon(), Severity("nope").Icon())

	for _, s := range Severities() {
		assert.NotEmpty(t, s.Glyph(), s)
	}
}

func TestCardState_String(t *testing.T) {
	assert.Equal(t, "entering", StateEntering.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "removed", StateRemoved.String())
	assert.Equal(t, "unknown", CardState(42).String())
}

func TestCloseReason_String(t *testing.T) {
	assert.Equal(t, "expired", CloseReasonExpired.String())
	assert.Equal(t, "dismissed", CloseReasonDismissed.String())
	assert.Equal(t, "closed", CloseReasonClosed.String())
	assert.Equal(t, "unknown", CloseReason(9).String())
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)

	_, err := ulid.Parse(a)
	require.NoError(t, err)
}
