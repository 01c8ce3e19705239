// Package symptomcodec converts an ordered list of symptom names to and from
// the versioned binary blob stored in a period record's symptoms column.
//
// Layout (version 1):
//
//	[version byte][uvarint count]{[uvarint length][UTF-8 bytes]}*
//
// An empty list encodes to two bytes, so it stays distinguishable from a
// missing value.
package symptomcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

const FormatVersion byte = 0x01

// maxEntries bounds the element count on both sides, so a corrupt count
// header cannot force a huge allocation.
const maxEntries = 1 << 16

var (
	ErrEncodingRejected = errors.New("symptom encoding rejected")
	ErrCorruptEncoding  = errors.New("corrupt symptom encoding")
)

func Encode(symptoms []string) ([]byte, error) {
	size := 1 + binary.MaxVarintLen64
	for index, symptom := range symptoms {
		if !utf8.ValidString(symptom) {
			return nil, fmt.Errorf("%w: element %d is not valid UTF-8", ErrEncodingRejected, index)
		}
		size += binary.MaxVarintLen64 + len(symptom)
	}
	if len(symptoms) > maxEntries {
		return nil, fmt.Errorf("%w: %d elements exceeds limit %d", ErrEncodingRejected, len(symptoms), maxEntries)
	}

	encoded := make([]byte, 0, size)
	encoded = append(encoded, FormatVersion)
	encoded = binary.AppendUvarint(encoded, uint64(len(symptoms)))
	for _, symptom := range symptoms {
		encoded = binary.AppendUvarint(encoded, uint64(len(symptom)))
		encoded = append(encoded, symptom...)
	}
	return encoded, nil
}

func Decode(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCorruptEncoding)
	}
	if data[0] != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version 0x%02x", ErrCorruptEncoding, data[0])
	}

	rest := data[1:]
	count, read := binary.Uvarint(rest)
	if read <= 0 {
		return nil, fmt.Errorf("%w: truncated element count", ErrCorruptEncoding)
	}
	if count > maxEntries {
		return nil, fmt.Errorf("%w: element count %d exceeds limit %d", ErrCorruptEncoding, count, maxEntries)
	}
	rest = rest[read:]

	symptoms := make([]string, 0, count)
	for index := uint64(0); index < count; index++ {
		length, read := binary.Uvarint(rest)
		if read <= 0 {
			return nil, fmt.Errorf("%w: truncated length of element %d", ErrCorruptEncoding, index)
		}
		rest = rest[read:]
		if length > uint64(len(rest)) {
			return nil, fmt.Errorf("%w: element %d needs %d bytes, %d left", ErrCorruptEncoding, index, length, len(rest))
		}

		raw := rest[:length]
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: element %d is not valid UTF-8", ErrCorruptEncoding, index)
		}
		symptoms = append(symptoms, string(raw))
		rest = rest[length:]
	}

	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptEncoding, len(rest))
	}
	return symptoms, nil
}
