package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"", ModeDev},
		{"dev", ModeDev},
		{"PROD", ModeProd},
		{" silent ", ModeSilent},
		{"off", ModeSilent},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseMode("verbose")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, mode := range []Mode{ModeDev, ModeProd, ModeSilent} {
		l, err := New(mode)
		require.NoError(t, err, mode.String())
		assert.NotNil(t, l)
	}
	assert.NotNil(t, OrNop(nil))
}
