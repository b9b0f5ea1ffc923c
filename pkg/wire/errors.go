package wire

import (
	"fmt"
)

// Kind classifies a decode failure.
type Kind uint8

const (
	KindTruncated Kind = iota + 1
	KindFrameMismatch
	KindUnknownRecordType
	KindUnconsumedBytes
	KindDuplicateKey
	KindInvalidBoolean
	KindUnresolvedReference
	KindInvalidText
)

var kindNames = [...]string{
	KindTruncated:           "truncated",
	KindFrameMismatch:       "frame mismatch",
	KindUnknownRecordType:   "unknown record type",
	KindUnconsumedBytes:     "unconsumed bytes",
	KindDuplicateKey:        "duplicate key",
	KindInvalidBoolean:      "invalid boolean",
	KindUnresolvedReference: "unresolved reference",
	KindInvalidText:         "invalid text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// DecodeError carries enough context to file a precise report against the
// record catalog: where it happened, what was declared and what was found.
type DecodeError struct {
	Kind     Kind
	Offset   int
	Expected int64 // declared length, marker or byte count
	Actual   int64 // observed value
	TypeHash uint32
	Key      uint32
	Detail   string
}

// Sentinels for errors.Is. They match any DecodeError of the same kind.
var (
	ErrTruncated           = &DecodeError{Kind: KindTruncated}
	ErrFrameMismatch       = &DecodeError{Kind: KindFrameMismatch}
	ErrUnknownRecordType   = &DecodeError{Kind: KindUnknownRecordType}
	ErrUnconsumedBytes     = &DecodeError{Kind: KindUnconsumedBytes}
	ErrDuplicateKey        = &DecodeError{Kind: KindDuplicateKey}
	ErrInvalidBoolean      = &DecodeError{Kind: KindInvalidBoolean}
	ErrUnresolvedReference = &DecodeError{Kind: KindUnresolvedReference}
	ErrInvalidText         = &DecodeError{Kind: KindInvalidText}
)

func (e *DecodeError) Error() string {
	var msg string
	switch e.Kind {
	case KindTruncated:
		msg = fmt.Sprintf("truncated at offset %d: need %d bytes, have %d", e.Offset, e.Expected, e.Actual)
	case KindFrameMismatch:
		msg = fmt.Sprintf("frame mismatch at offset %d: expected %d, got %d", e.Offset, e.Expected, e.Actual)
	case KindUnknownRecordType:
		msg = fmt.Sprintf("unknown record type %08X at offset %d", e.TypeHash, e.Offset)
	case KindUnconsumedBytes:
		msg = fmt.Sprintf("unconsumed bytes at offset %d: %d remaining (declared %d, consumed %d)",
			e.Offset, e.Remaining(), e.Expected, e.Actual)
	case KindDuplicateKey:
		msg = fmt.Sprintf("duplicate key %d at offset %d", e.Key, e.Offset)
	case KindInvalidBoolean:
		msg = fmt.Sprintf("invalid boolean 0x%02X at offset %d", e.Actual, e.Offset)
	case KindUnresolvedReference:
		msg = fmt.Sprintf("unresolved reference to key %d", e.Key)
	case KindInvalidText:
		msg = fmt.Sprintf("unpaired UTF-16 surrogate 0x%04X at offset %d", e.Actual, e.Offset)
	default:
		msg = e.Kind.String()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is a DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}

// Remaining is the signed difference between declared and consumed bytes. A
// negative value means the handler read past the declared end.
func (e *DecodeError) Remaining() int64 {
	return e.Expected - e.Actual
}

func Truncated(off int, need, have int64) *DecodeError {
	return &DecodeError{Kind: KindTruncated, Offset: off, Expected: need, Actual: have}
}

func FrameMismatch(off int, expected, actual uint32) *DecodeError {
	return &DecodeError{Kind: KindFrameMismatch, Offset: off, Expected: int64(expected), Actual: int64(actual)}
}

func UnknownRecordType(off int, hash uint32) *DecodeError {
	return &DecodeError{Kind: KindUnknownRecordType, Offset: off, TypeHash: hash}
}

func UnconsumedBytes(off int, declared, consumed int64) *DecodeError {
	return &DecodeError{Kind: KindUnconsumedBytes, Offset: off, Expected: declared, Actual: consumed}
}

func DuplicateKey(off int, key uint32) *DecodeError {
	return &DecodeError{Kind: KindDuplicateKey, Offset: off, Key: key}
}

func InvalidBoolean(off int, b byte) *DecodeError {
	return &DecodeError{Kind: KindInvalidBoolean, Offset: off, Actual: int64(b)}
}

func UnresolvedReference(key uint32, detail string) *DecodeError {
	return &DecodeError{Kind: KindUnresolvedReference, Key: key, Detail: detail}
}

func InvalidText(off int, unit uint16) *DecodeError {
	return &DecodeError{Kind: KindInvalidText, Offset: off, Actual: int64(unit)}
}
