// Package protocol implements the wire format shared by the server and the client:
// length-prefixed frames and the update and move payloads they carry.
//
// A frame is a 4-byte ASCII decimal header, left-padded with spaces, holding the
// body length (0-768), immediately followed by the body. Frame boundaries are purely
// length-driven.
package protocol

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

const (
	HeaderLength  = 4
	MaxBodyLength = 768
)

var (
	ErrMalformedHeader = errors.New("malformed frame header")
	ErrBodyTooLarge    = errors.New("frame body is too large")
)

// EncodeFrame - prefixes body with its length header.
func EncodeFrame(body []byte) ([]byte, error) {
	if len(body) > MaxBodyLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, len(body))
	}

	frame := make([]byte, HeaderLength+len(body))
	copy(frame, fmt.Sprintf("%*d", HeaderLength, len(body)))
	copy(frame[HeaderLength:], body)

	return frame, nil
}

// DecodeHeader - returns the body length announced by a frame header.
// Lengths above MaxBodyLength are a protocol violation, not clamped.
func DecodeHeader(header []byte) (int, error) {
	if len(header) != HeaderLength {
		return 0, fmt.Errorf("%w: want %d bytes, got %d", ErrMalformedHeader, HeaderLength, len(header))
	}

	start := 0
	for start < len(header) && header[start] == ' ' {
		start++
	}

	digits := header[start:]
	if len(digits) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
	}

	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
		}
	}

	length, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	if length > MaxBodyLength {
		return 0, fmt.Errorf("%w: %w: %d", ErrMalformedHeader, ErrBodyTooLarge, length)
	}

	return length, nil
}

// Reader reads whole frames from a byte stream. Partial deliveries are
// accumulated until the header or the body is complete.
type Reader struct {
	source io.Reader
	header [HeaderLength]byte
}

func NewReader(source io.Reader) *Reader {
	return &Reader{source: source}
}

// ReadFrame - blocks until one complete frame is available and returns its body.
func (that *Reader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(that.source, that.header[:]); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	length, err := DecodeHeader(that.header[:])
	if err != nil {
		return nil, err
	}

	body := make([]byte, length)
	if _, err = io.ReadFull(that.source, body); err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}
