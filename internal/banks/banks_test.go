package banks

import (
	"strings"
	"testing"

	"fjacquet/sms-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsBankSender_KnownIDsAnyCaseAndWhitespace(t *testing.T) {
	for _, s := range DefaultSenders {
		variants := []string{s.ID, "  " + s.ID + "\t", strings.ToLower(s.ID), " " + strings.ToLower(s.ID) + " "}
		for _, v := range variants {
			assert.True(t, IsBankSender(v), "expected %q to be a bank sender", v)
		}
	}
}

func TestIsBankSender_Rejects(t *testing.T) {
	for _, sender := range []string{"", "   ", "RANDOM123", "HDFC", "HDFCBANK", "+919876543210", "VM-RANDOM", "AB-CD-HDFCBK"} {
		assert.False(t, IsBankSender(sender), "expected %q to be rejected", sender)
	}
}

func TestIsBankSender_Templated(t *testing.T) {
	assert.True(t, IsBankSender("VM-HDFCBK"))
	assert.True(t, IsBankSender("jd-icicib-s"))
	assert.True(t, IsBankSender("SBIIN-T"))
	assert.True(t, IsBankSender("ＨＤＦＣＢＫ"), "full-width letters fold to ASCII")
}

func TestResolveBankName(t *testing.T) {
	tests := []struct {
		sender   string
		expected string
	}{
		{"HDFCBK", "HDFC Bank"},
		{" hdfcbk ", "HDFC Bank"},
		{"VM-SBIIN", "State Bank of India"},
		{"CITIBANK", "Citibank"},
		{"Random Sender", "Random Sender"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.sender, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveBankName(tt.sender))
		})
	}
}

func TestRegistry_With(t *testing.T) {
	base := DefaultRegistry()
	extended := base.With(
		models.BankSender{ID: "fedbnk", Name: "Federal Bank"},
		models.BankSender{ID: "HDFCBK", Name: "HDFC"},
		models.BankSender{ID: "  "},
	)

	assert.True(t, extended.IsBankSender("FEDBNK"))
	assert.Equal(t, "Federal Bank", extended.ResolveBankName("AD-FEDBNK"))
	assert.Equal(t, "HDFC", extended.ResolveBankName("HDFCBK"))
	assert.Len(t, extended.Senders(), len(DefaultSenders)+1)

	assert.False(t, base.IsBankSender("FEDBNK"), "base registry is unchanged")
	assert.Equal(t, "HDFC Bank", base.ResolveBankName("HDFCBK"))
}

func TestNewRegistry_BlankNameDefaultsToID(t *testing.T) {
	r := NewRegistry(models.BankSender{ID: "abcbnk"})
	assert.Equal(t, "ABCBNK", r.ResolveBankName("abcbnk"))
}
