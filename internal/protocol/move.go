package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedMove = errors.New("malformed move request")

// EncodeMove - returns the "<x>, <y>" move request body.
func EncodeMove(x, y int) []byte {
	return []byte(fmt.Sprintf("%d, %d", x, y))
}

// ParseMove - reads a move request body. Anything but exactly two
// comma-separated integers is rejected.
func ParseMove(body []byte) (int, int, error) {
	left, right, found := strings.Cut(string(body), ",")
	if !found {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedMove, body)
	}

	x, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	y, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	return x, y, nil
}
