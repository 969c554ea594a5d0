package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  int64
		valid bool
	}{
		{"number", `42`, 42, true},
		{"negative number", `-3`, -3, true},
		{"float truncated", `7.9`, 7, true},
		{"numeric string", `"15"`, 15, true},
		{"numeric prefix", `"12px"`, 12, true},
		{"empty string", `""`, 0, false},
		{"garbage string", `"abc"`, 0, false},
		{"null", `null`, 0, false},
		{"bool", `true`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))

			v, ok := f.Get()
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestFlexInt_InsideRecord(t *testing.T) {
	var p PlayerData
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","globalvolume":"80"}`), &p))
	assert.Equal(t, NewFlexInt(80), p.GlobalVolume)

	var c CharacterData
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","bio":1577836800,"gmnotes":""}`), &c))
	assert.True(t, c.Bio.Valid)
	assert.False(t, c.GMNotes.Valid)
	assert.False(t, c.DefaultToken.Valid)
}

func TestFlexInt_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewFlexInt(5))
	require.NoError(t, err)
	assert.Equal(t, "5", string(b))

	b, err = json.Marshal(FlexInt{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
