package xmlutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backup = `<?xml version="1.0" encoding="UTF-8"?>
<smses count="2">
  <sms protocol="0" address="HDFCBK" date="1709625600000" type="1" body="Rs.500 debited" />
  <sms protocol="0" address="VM-ICICIB" date="1709712000000" type="1" body="Rs.20 credited&#10;Thanks" />
</smses>`

func TestNodesAndValue(t *testing.T) {
	root, err := ParseXML(strings.NewReader(backup))
	require.NoError(t, err)

	nodes, err := Nodes(root, SMSBackup.Message)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "HDFCBK", Value(nodes[0], SMSBackup.Address))
	assert.Equal(t, "1709625600000", Value(nodes[0], SMSBackup.Date))
	assert.Equal(t, "Rs.20 credited\nThanks", Value(nodes[1], SMSBackup.Body))
	assert.Equal(t, "", Value(nodes[0], SMSBackup.ID))
	assert.Equal(t, "", Value(nodes[0], "[invalid"))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"newlines and tabs", "  a\n\tb   c ", "a b c"},
		{"backup line break", "Rs.20 credited\nThanks", "Rs.20 credited Thanks"},
		{"blank", " \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
