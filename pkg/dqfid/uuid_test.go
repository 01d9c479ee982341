package dqfid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalID(t *testing.T) {
	t.Run("generates valid non-zero id", func(t *testing.T) {
		id := NewLocalID()
		assert.False(t, id.IsZero())
		assert.Len(t, id.String(), 36)
	})

	t.Run("generates unique ids", func(t *testing.T) {
		assert.False(t, NewLocalID().Equal(NewLocalID()))
	})
}

func TestParseLocalID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "valid with hyphens",
			input: "550e8400-e29b-41d4-a716-446655440000",
			want:  "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:  "uppercase is normalized",
			input: "550E8400-E29B-41D4-A716-446655440000",
			want:  "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:  "without hyphens",
			input: "550e8400e29b41d4a716446655440000",
			want:  "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:    "invalid format",
			input:   "not-a-uuid",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocalID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMustParseLocalID(t *testing.T) {
	assert.Panics(t, func() { MustParseLocalID("nope") })
	assert.NotPanics(t, func() { MustParseLocalID("550e8400-e29b-41d4-a716-446655440000") })
}

func TestLocalID_JSON(t *testing.T) {
	t.Run("zero value is null", func(t *testing.T) {
		data, err := json.Marshal(LocalID{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("null and empty decode to zero", func(t *testing.T) {
		var id LocalID
		require.NoError(t, json.Unmarshal([]byte("null"), &id))
		assert.True(t, id.IsZero())
		require.NoError(t, json.Unmarshal([]byte(`""`), &id))
		assert.True(t, id.IsZero())
	})

	t.Run("string decodes", func(t *testing.T) {
		var id LocalID
		require.NoError(t, json.Unmarshal([]byte(`"550e8400-e29b-41d4-a716-446655440000"`), &id))
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("non-string is rejected", func(t *testing.T) {
		var id LocalID
		assert.Error(t, json.Unmarshal([]byte(`42`), &id))
	})
}
