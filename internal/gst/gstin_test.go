package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGSTIN(t *testing.T) {
	tests := []struct {
		name  string
		gstin string
		valid bool
	}{
		{"karnataka vendor", "29ABCDE1234F1Z5", true},
		{"maharashtra buyer", "27LMNOP9876H1Z8", true},
		{"union territory other", "97ABCDE1234F2Z9", true},
		{"too short", "29ABCDE1234F1Z", false},
		{"too long", "29ABCDE1234F1Z55", false},
		{"lowercase letters", "29abcde1234f1z5", false},
		{"missing Z at position 14", "29ABCDE1234F1X5", false},
		{"zero entity code", "29ABCDE1234F0Z5", false},
		{"digits where letters expected", "29ABC121234F1Z5", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidGSTIN(tt.gstin))
		})
	}
}

func TestGSTINState(t *testing.T) {
	assert.Equal(t, StateCode("29"), GSTINState("29ABCDE1234F1Z5"))
	assert.Equal(t, StateCode("07"), GSTINState("07ABCDE1234F1Z5"))
	assert.Equal(t, StateCode(""), GSTINState(""))
	assert.Equal(t, StateCode(""), GSTINState("2"))
}

func TestDefaultStateTable(t *testing.T) {
	states := DefaultStateTable()

	assert.Len(t, states, 37)
	assert.Equal(t, "Karnataka", states.Name("29"))
	assert.Equal(t, "Maharashtra", states.Name("27"))
	assert.True(t, states.Known("01"))
	assert.True(t, states.Known("37"))
	assert.False(t, states.Known("99"))
	assert.Equal(t, "", states.Name("99"))
}
