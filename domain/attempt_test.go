package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelKey(t *testing.T) {
	tests := map[string]struct {
		raw     string
		want    ModelKey
		wantErr bool
	}{
		"strong":               {raw: "strong", want: ModelKeyStrong},
		"mid":                  {raw: "mid", want: ModelKeyMid},
		"budget":               {raw: "budget", want: ModelKeyBudget},
		"uppercase normalized": {raw: "STRONG", want: ModelKeyStrong},
		"whitespace trimmed":   {raw: "  mid \n", want: ModelKeyMid},
		"unknown key":          {raw: "turbo", wantErr: true},
		"empty":                {raw: "", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseModelKey(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidModelKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestItemStatus_Terminal(t *testing.T) {
	assert.True(t, ItemStatusSucceeded.Terminal())
	assert.True(t, ItemStatusFailed.Terminal())
	assert.False(t, ItemStatusQueued.Terminal())
	assert.False(t, ItemStatusProcessing.Terminal())
	assert.False(t, ItemStatusNeedsUserText.Terminal())
}
