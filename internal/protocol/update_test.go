package protocol

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

func sampleUpdate() Update {
	board := entity.EmptyBoard()
	board[0][0] = entity.Player1
	board[1][1] = entity.Player2
	board[2][0] = entity.Player1

	return Update{
		Playing:       true,
		ViewerID:      entity.Player2,
		CurrentPlayer: entity.Player2,
		Winner:        entity.None,
		Board:         board,
	}
}

func TestRecognitionTagLength(t *testing.T) {
	assert.Len(t, RecognitionTag, 36)
}

func TestEncodeUpdate(t *testing.T) {
	t.Run("Fields follow the tag in fixed order", func(t *testing.T) {
		payload, err := EncodeUpdate(sampleUpdate())
		require.NoError(t, err)

		expected := RecognitionTag +
			`{"playing":true,"viewer_id":1,"current_player":1,"winner":2,"board":[[0,2,2],[2,1,2],[0,2,2]]}`
		assert.Equal(t, expected, string(payload))
	})

	t.Run("Encoded update fits in a frame", func(t *testing.T) {
		payload, err := EncodeUpdate(sampleUpdate())
		require.NoError(t, err)

		_, err = EncodeFrame(payload)
		require.NoError(t, err)
	})
}

func TestDecodeUpdate(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		// Given: an encoded update
		original := sampleUpdate()
		payload, err := EncodeUpdate(original)
		require.NoError(t, err)

		// When: decoding it
		decoded, err := DecodeUpdate(payload)
		require.NoError(t, err)

		// Then: every field survives
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Fatalf("DecodeUpdate() mismatch; diff:\n%s", diff)
		}
	})

	t.Run("Round trip of a finished game", func(t *testing.T) {
		state := entity.NewState()
		state.Board[0] = [entity.BoardSide]entity.Owner{entity.Player1, entity.Player1, entity.Player1}
		state.Winner = entity.Player1

		original := NewUpdate(state, entity.Player1)
		payload, err := EncodeUpdate(original)
		require.NoError(t, err)

		decoded, err := DecodeUpdate(payload)
		require.NoError(t, err)
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Fatalf("DecodeUpdate() mismatch; diff:\n%s", diff)
		}
	})

	rejected := map[string]string{
		"empty":              "",
		"tag only":           RecognitionTag,
		"short body":         RecognitionTag[:10],
		"wrong tag":          strings.Replace(RecognitionTag, "3", "4", 1) + `{"playing":true}`,
		"move request":       "1, 1",
		"broken json":        RecognitionTag + `{"playing":`,
		"unknown field":      RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]],"extra":1}`,
		"missing board":      RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2}`,
		"short row":          RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2],[2,2,2],[2,2,2]]}`,
		"invalid owner":      RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[7,2,2],[2,2,2],[2,2,2]]}`,
		"viewer is none":     RecognitionTag + `{"playing":true,"viewer_id":2,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]]}`,
		"trailing structure": RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]]}{}`,
		"trailing bracket":   RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]]}]`,
		"trailing brace":     RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]]}}`,
		"trailing closers":   RecognitionTag + `{"playing":true,"viewer_id":0,"current_player":0,"winner":2,"board":[[2,2,2],[2,2,2],[2,2,2]]}]]}`,
	}
	for name, payload := range rejected {
		t.Run("Rejects "+name, func(t *testing.T) {
			_, err := DecodeUpdate([]byte(payload))

			require.ErrorIs(t, err, ErrPayloadRejected)
		})
	}
}
