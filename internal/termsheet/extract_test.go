package termsheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "empty input",
			text:     "",
			wantKeys: []string{},
			want:     map[string]string{},
		},
		{
			name:     "lines without a colon contribute nothing",
			text:     "EQUITY SWAP TERM SHEET\nno separator here\n\n",
			wantKeys: []string{},
			want:     map[string]string{},
		},
		{
			name:     "keys are trimmed and upper-cased",
			text:     "  trade date :   2023-05-15  \nDealer: Global Bank Ltd",
			wantKeys: []string{"TRADE DATE", "DEALER"},
			want:     map[string]string{"TRADE DATE": "2023-05-15", "DEALER": "Global Bank Ltd"},
		},
		{
			name:     "first colon splits key from value",
			text:     "SETTLEMENT TIME: 10:30 London",
			wantKeys: []string{"SETTLEMENT TIME"},
			want:     map[string]string{"SETTLEMENT TIME": "10:30 London"},
		},
		{
			name:     "last occurrence wins and keeps first position",
			text:     "A: 1\nB: x\nA: 2",
			wantKeys: []string{"A", "B"},
			want:     map[string]string{"A": "2", "B": "x"},
		},
		{
			name:     "empty value or empty key is ignored",
			text:     "PAYMENT DETAILS:\n: orphan value\nKEY:   \nOK: yes",
			wantKeys: []string{"OK"},
			want:     map[string]string{"OK": "yes"},
		},
		{
			name:     "windows line endings",
			text:     "TRADE DATE: 2023-05-15\r\nDEALER: Global Bank Ltd\r\n",
			wantKeys: []string{"TRADE DATE", "DEALER"},
			want:     map[string]string{"TRADE DATE": "2023-05-15", "DEALER": "Global Bank Ltd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFields(tt.text)
			assert.Equal(t, tt.wantKeys, got.Keys())
			assert.Equal(t, tt.want, got.Map())
			assert.Equal(t, len(tt.want), got.Len())
		})
	}
}

func TestExtractFields_Idempotent(t *testing.T) {
	first := ExtractFields(SampleText(SampleInterestRateSwap))

	var b strings.Builder
	for _, k := range first.Keys() {
		v, _ := first.Get(k)
		b.WriteString(k + ": " + v + "\n")
	}
	second := ExtractFields(b.String())

	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, first.Map(), second.Map())
}

func TestExtractFields_EquitySample(t *testing.T) {
	got := ExtractFields(SampleText(SampleEquitySwap))

	v, ok := got.Get("NOTIONAL AMOUNT")
	assert.True(t, ok)
	assert.Equal(t, "USD 10,000,000", v)

	_, ok = got.Get("PAYMENT DETAILS")
	assert.False(t, ok, "heading with no value must not be extracted")

	v, ok = got.Get("- SETTLEMENT")
	assert.True(t, ok)
	assert.Equal(t, "Cash settlement in USD", v)
}
