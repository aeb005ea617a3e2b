package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

// RecognitionTag prefixes every update payload so that receivers can tell it
// apart from anything else before parsing it.
const RecognitionTag = "37ffb46b-5005-4b46-bbf2-d6595d1c3cb1"

var ErrPayloadRejected = errors.New("payload rejected")

// Update is a session snapshot addressed to one participant.
type Update struct {
	Playing       bool
	ViewerID      entity.Owner
	CurrentPlayer entity.Owner
	Winner        entity.Owner
	Board         entity.Board
}

func NewUpdate(state entity.State, viewer entity.Owner) Update {
	return Update{
		Playing:       state.Playing,
		ViewerID:      viewer,
		CurrentPlayer: state.CurrentPlayer,
		Winner:        state.Winner,
		Board:         state.Board,
	}
}

// updateBody fixes the field order on the wire.
type updateBody struct {
	Playing       bool             `json:"playing"`
	ViewerID      entity.Owner     `json:"viewer_id"`
	CurrentPlayer entity.Owner     `json:"current_player"`
	Winner        entity.Owner     `json:"winner"`
	Board         [][]entity.Owner `json:"board"`
}

// EncodeUpdate - returns the frame body for update.
func EncodeUpdate(update Update) ([]byte, error) {
	body := updateBody{
		Playing:       update.Playing,
		ViewerID:      update.ViewerID,
		CurrentPlayer: update.CurrentPlayer,
		Winner:        update.Winner,
		Board:         make([][]entity.Owner, entity.BoardSide),
	}
	for x := range update.Board {
		body.Board[x] = append([]entity.Owner(nil), update.Board[x][:]...)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	payload := make([]byte, 0, len(RecognitionTag)+len(encoded))
	payload = append(payload, RecognitionTag...)
	payload = append(payload, encoded...)

	return payload, nil
}

// DecodeUpdate - parses a frame body produced by EncodeUpdate. Any mismatch
// yields ErrPayloadRejected; callers drop the message and carry on.
func DecodeUpdate(payload []byte) (Update, error) {
	if len(payload) < len(RecognitionTag)+1 {
		return Update{}, fmt.Errorf("%w: body too short (%d bytes)", ErrPayloadRejected, len(payload))
	}

	if !bytes.HasPrefix(payload, []byte(RecognitionTag)) {
		return Update{}, fmt.Errorf("%w: recognition tag mismatch", ErrPayloadRejected)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload[len(RecognitionTag):]))
	decoder.DisallowUnknownFields()

	var body updateBody
	if err := decoder.Decode(&body); err != nil {
		return Update{}, fmt.Errorf("%w: %w", ErrPayloadRejected, err)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return Update{}, fmt.Errorf("%w: trailing data", ErrPayloadRejected)
	}

	return body.toUpdate()
}

func (that *updateBody) toUpdate() (Update, error) {
	if !that.ViewerID.IsPlayer() || !that.CurrentPlayer.IsPlayer() || !that.Winner.Valid() {
		return Update{}, fmt.Errorf("%w: invalid player id", ErrPayloadRejected)
	}

	if len(that.Board) != entity.BoardSide {
		return Update{}, fmt.Errorf("%w: board has %d rows", ErrPayloadRejected, len(that.Board))
	}

	update := Update{
		Playing:       that.Playing,
		ViewerID:      that.ViewerID,
		CurrentPlayer: that.CurrentPlayer,
		Winner:        that.Winner,
	}

	for x, row := range that.Board {
		if len(row) != entity.BoardSide {
			return Update{}, fmt.Errorf("%w: board row %d has %d cells", ErrPayloadRejected, x, len(row))
		}

		for y, owner := range row {
			if !owner.Valid() {
				return Update{}, fmt.Errorf("%w: invalid cell owner %d", ErrPayloadRejected, owner)
			}
			update.Board[x][y] = owner
		}
	}

	return update, nil
}
