package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "projet/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs at trust boundaries are positive decimal integers"
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCityID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParseCityID("0")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts a positive id", func(t *testing.T) {
		id, err := ParseCityID("10")
		require.NoError(t, err)
		assert.Equal(t, CityID(10), id)
		assert.Equal(t, "10", id.String())
	})
}

func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "1; DROP TABLE city;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "1\x00", true},
		{"Oversized input", strings.Repeat("9", 100), true},
		{"Overflow", "9223372036854775808", true},
		{"Negative", "-1", true},
		{"Explicit sign", "+1", true},
		{"Whitespace only", "   ", true},
		{"Hex", "0x10", true},

		{"Max int64", "9223372036854775807", false},
		{"Leading zeros", "007", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlayerID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures every id type parses the same way.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	for _, input := range []string{"", "abc", "0", "-4"} {
		_, errRegion := ParseRegionID(input)
		_, errCity := ParseCityID(input)
		_, errPlayer := ParsePlayerID(input)
		assert.Error(t, errRegion, input)
		assert.Error(t, errCity, input)
		assert.Error(t, errPlayer, input)
	}

	region, err := ParseRegionID("42")
	require.NoError(t, err)
	assert.False(t, region.IsNil())
	assert.True(t, RegionID(0).IsNil())
}
