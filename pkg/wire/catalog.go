// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package wire reads and writes the protobuf bodies accepted by the catalog
// endpoints:
//
//	message Habit {
//	  string id = 1;
//	  string slug = 2;
//	  string name = 3;
//	  string icon = 4;
//	  string unit_name = 5;
//	}
//
//	message Theme {
//	  string id = 1;
//	  string name = 2;
//	  string css = 3;
//	  optional int32 icon_limit = 4;
//	}
package wire

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned for bodies that are not valid messages.
var ErrMalformed = errors.New("malformed protobuf body")

// Habit mirrors the Habit message. Id is carried as text and validated by
// the catalog.
type Habit struct {
	ID       string
	Slug     string
	Name     string
	Icon     string
	UnitName string
}

// Theme mirrors the Theme message.
type Theme struct {
	ID        string
	Name      string
	CSS       string
	IconLimit *int32
}

// MarshalHabit encodes a Habit message.
func MarshalHabit(h Habit) []byte {
	var b []byte
	b = appendString(b, 1, h.ID)
	b = appendString(b, 2, h.Slug)
	b = appendString(b, 3, h.Name)
	b = appendString(b, 4, h.Icon)
	b = appendString(b, 5, h.UnitName)
	return b
}

// UnmarshalHabit decodes a Habit message, skipping unknown fields.
func UnmarshalHabit(b []byte) (Habit, error) {
	var h Habit
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(b, typ, &h.ID)
		case 2:
			return consumeString(b, typ, &h.Slug)
		case 3:
			return consumeString(b, typ, &h.Name)
		case 4:
			return consumeString(b, typ, &h.Icon)
		case 5:
			return consumeString(b, typ, &h.UnitName)
		}
		return skip(num, typ, b)
	})
	if err != nil {
		return Habit{}, err
	}
	return h, nil
}

// MarshalTheme encodes a Theme message.
func MarshalTheme(t Theme) []byte {
	var b []byte
	b = appendString(b, 1, t.ID)
	b = appendString(b, 2, t.Name)
	b = appendString(b, 3, t.CSS)
	if t.IconLimit != nil {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(*t.IconLimit)))
	}
	return b
}

// UnmarshalTheme decodes a Theme message, skipping unknown fields.
func UnmarshalTheme(b []byte) (Theme, error) {
	var t Theme
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(b, typ, &t.ID)
		case 2:
			return consumeString(b, typ, &t.Name)
		case 3:
			return consumeString(b, typ, &t.CSS)
		case 4:
			if typ != protowire.VarintType {
				return 0, fmt.Errorf("%w: icon_limit has wire type %d", ErrMalformed, typ)
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, fmt.Errorf("%w: icon_limit: %v", ErrMalformed, protowire.ParseError(n))
			}
			limit := int32(v)
			t.IconLimit = &limit
			return n, nil
		}
		return skip(num, typ, b)
	})
	if err != nil {
		return Theme{}, err
	}
	return t, nil
}

func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
	}
	return n, nil
}

func consumeString(b []byte, typ protowire.Type, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, fmt.Errorf("%w: string field has wire type %d", ErrMalformed, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
	}
	if !utf8.Valid(v) {
		return 0, fmt.Errorf("%w: string field is not valid UTF-8", ErrMalformed)
	}
	*dst = string(v)
	return n, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}
