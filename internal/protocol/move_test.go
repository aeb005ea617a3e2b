package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	valid := map[string][2]int{
		"0, 2":      {0, 2},
		"1,1":       {1, 1},
		" 2 , 0 \n": {2, 0},
		"-1, 5":     {-1, 5},
	}
	for body, expected := range valid {
		x, y, err := ParseMove([]byte(body))

		require.NoError(t, err, body)
		assert.Equal(t, expected, [2]int{x, y}, body)
	}

	for _, body := range []string{"", "1", "1 2", "a, b", "1, 2, 3", "1, 2x", RecognitionTag} {
		_, _, err := ParseMove([]byte(body))

		require.ErrorIs(t, err, ErrMalformedMove, body)
	}
}

func TestEncodeMove(t *testing.T) {
	body := EncodeMove(2, 1)
	assert.Equal(t, "2, 1", string(body))

	x, y, err := ParseMove(body)
	require.NoError(t, err)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}
