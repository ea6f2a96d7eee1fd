package discovery

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"

	"pumpfun-monitor/internal/domain"
)

// createEventTagLen is the size of the leading event discriminator.
// The decoder skips it without interpreting it.
const createEventTagLen = 8

// pubkeyLen is the raw size of a Solana public key.
const pubkeyLen = 32

// DecodeCreateEvent decodes a pump.fun CreateEvent payload.
//
// Wire layout after the 8-byte discriminator, all integers little-endian:
//   - name:   u32 length + bytes (UTF-8, trailing NULs stripped)
//   - symbol: u32 length + bytes
//   - uri:    u32 length + bytes
//   - mint, bondingCurve, user: 32 raw bytes each, rendered base58
//
// The cursor advances strictly left to right. Any truncation, oversized
// length prefix or invalid UTF-8 fails the whole decode with
// ErrMalformedPayload; MintTime is left for the caller to stamp.
func DecodeCreateEvent(data []byte) (*domain.TokenCreationEvent, error) {
	if len(data) < createEventTagLen {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", ErrMalformedPayload, len(data), createEventTagLen)
	}
	offset := createEventTagLen

	name, offset, err := readLengthPrefixedString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	symbol, offset, err := readLengthPrefixedString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}
	uri, offset, err := readLengthPrefixedString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("uri: %w", err)
	}

	mint, offset, err := readPubkey(data, offset)
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	bondingCurve, offset, err := readPubkey(data, offset)
	if err != nil {
		return nil, fmt.Errorf("bonding curve: %w", err)
	}
	user, _, err := readPubkey(data, offset)
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}

	return &domain.TokenCreationEvent{
		Name:         name,
		Symbol:       symbol,
		URI:          uri,
		Mint:         mint,
		BondingCurve: bondingCurve,
		User:         user,
	}, nil
}

// readLengthPrefixedString reads a u32-LE length followed by that many bytes
// of UTF-8 text, stripping trailing NUL padding.
func readLengthPrefixedString(data []byte, offset int) (string, int, error) {
	if offset+4 > len(data) {
		return "", 0, fmt.Errorf("%w: length prefix past end of buffer", ErrMalformedPayload)
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	if length > len(data)-offset {
		return "", 0, fmt.Errorf("%w: declared length %d exceeds remaining %d bytes", ErrMalformedPayload, length, len(data)-offset)
	}

	raw := data[offset : offset+length]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%w: invalid UTF-8", ErrMalformedPayload)
	}

	return strings.TrimRight(string(raw), "\x00"), offset + length, nil
}

// readPubkey reads 32 raw bytes and renders them as a base58 address.
func readPubkey(data []byte, offset int) (string, int, error) {
	if offset+pubkeyLen > len(data) {
		return "", 0, fmt.Errorf("%w: pubkey past end of buffer", ErrMalformedPayload)
	}
	return base58.Encode(data[offset : offset+pubkeyLen]), offset + pubkeyLen, nil
}
