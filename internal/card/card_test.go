package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTone(t *testing.T) {
	tests := []struct {
		in      string
		want    Tone
		wantErr bool
	}{
		{"", ToneUnset, false},
		{"light", ToneLight, false},
		{"DARK", ToneDark, false},
		{" dark ", ToneDark, false},
		{"sepia", ToneUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTone(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardValidate(t *testing.T) {
	valid := Card{ID: 3, Text: "Every breath is a beginning.", Image: "03__Every breath is a beginning.png"}
	require.NoError(t, valid.Validate())

	t.Run("non-positive id", func(t *testing.T) {
		c := valid
		c.ID = 0
		assert.Error(t, c.Validate())
	})

	t.Run("blank text", func(t *testing.T) {
		c := valid
		c.Text = "   "
		assert.Error(t, c.Validate())
	})

	t.Run("missing image", func(t *testing.T) {
		c := valid
		c.Image = ""
		assert.Error(t, c.Validate())
	})

	t.Run("bad tone", func(t *testing.T) {
		c := valid
		c.PreferredTone = "neon"
		assert.ErrorIs(t, c.Validate(), ErrInvalidTone)
	})
}

func TestToneOr(t *testing.T) {
	assert.Equal(t, ToneLight, Card{}.ToneOr(ToneLight))
	assert.Equal(t, ToneDark, Card{PreferredTone: ToneDark}.ToneOr(ToneLight))
}
