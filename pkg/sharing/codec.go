// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package sharing

import (
	"encoding/base64"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the TrackerState message. The layout is protobuf
// compatible:
//
//	message TrackerState {
//	  sint64 start_timestamp = 1;          // required
//	  double units_per_day = 2;            // default 0
//	  optional string theme_id = 3;        // absent = no theme
//	  string user_name = 4;                // default ""
//	}
const (
	fieldStartTimestamp protowire.Number = 1
	fieldUnitsPerDay    protowire.Number = 2
	fieldThemeID        protowire.Number = 3
	fieldUserName       protowire.Number = 4
)

// TrackerState is the only structure that crosses the URL boundary. It
// carries neither the habit id (the URL path names the habit) nor the
// tracker id (identity is derived on reconciliation).
type TrackerState struct {
	StartTimestamp int64
	UnitsPerDay    float64
	ThemeID        *string
	UserName       string
}

// Equal compares field by field. Rates are compared bitwise so that NaN
// payloads round-trip as equal.
func (s TrackerState) Equal(o TrackerState) bool {
	if s.StartTimestamp != o.StartTimestamp || s.UserName != o.UserName {
		return false
	}
	if math.Float64bits(s.UnitsPerDay) != math.Float64bits(o.UnitsPerDay) {
		return false
	}
	if (s.ThemeID == nil) != (o.ThemeID == nil) {
		return false
	}
	return s.ThemeID == nil || *s.ThemeID == *o.ThemeID
}

// Encode serializes the state and applies unpadded URL-safe base64, so the
// result can follow a '#' in a URL without escaping.
func Encode(s TrackerState) string {
	return base64.RawURLEncoding.EncodeToString(Marshal(s))
}

// Decode is the inverse of Encode. Every failure is a *DecodeError.
func Decode(fragment string) (TrackerState, error) {
	buf, err := base64.RawURLEncoding.DecodeString(fragment)
	if err != nil {
		return TrackerState{}, decodeErrorf(err, "malformed base64")
	}
	return Unmarshal(buf)
}

// Marshal returns the binary form of the state. The timestamp and rate are
// always written; the theme id only when present; the user name only when
// non-empty.
func Marshal(s TrackerState) []byte {
	size := 1 + protowire.SizeVarint(protowire.EncodeZigZag(s.StartTimestamp)) + 1 + 8
	if s.ThemeID != nil {
		size += 1 + protowire.SizeBytes(len(*s.ThemeID))
	}
	if s.UserName != "" {
		size += 1 + protowire.SizeBytes(len(s.UserName))
	}

	b := make([]byte, 0, size)
	b = protowire.AppendTag(b, fieldStartTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(s.StartTimestamp))
	b = protowire.AppendTag(b, fieldUnitsPerDay, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(s.UnitsPerDay))
	if s.ThemeID != nil {
		b = protowire.AppendTag(b, fieldThemeID, protowire.BytesType)
		b = protowire.AppendString(b, *s.ThemeID)
	}
	if s.UserName != "" {
		b = protowire.AppendTag(b, fieldUserName, protowire.BytesType)
		b = protowire.AppendString(b, s.UserName)
	}
	return b
}

// Unmarshal parses the binary form. Fields may come in any order, unknown
// fields are skipped, and a repeated field keeps its last value.
func Unmarshal(b []byte) (TrackerState, error) {
	var (
		s         TrackerState
		seenStart bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return TrackerState{}, decodeErrorf(protowire.ParseError(n), "malformed field tag")
		}
		b = b[n:]

		switch num {
		case fieldStartTimestamp:
			if typ != protowire.VarintType {
				return TrackerState{}, wireTypeError("start_timestamp", typ)
			}
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return TrackerState{}, decodeErrorf(protowire.ParseError(m), "malformed start_timestamp")
			}
			s.StartTimestamp = protowire.DecodeZigZag(v)
			seenStart = true
			n = m

		case fieldUnitsPerDay:
			if typ != protowire.Fixed64Type {
				return TrackerState{}, wireTypeError("units_per_day", typ)
			}
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return TrackerState{}, decodeErrorf(protowire.ParseError(m), "malformed units_per_day")
			}
			s.UnitsPerDay = math.Float64frombits(v)
			n = m

		case fieldThemeID:
			v, m, err := consumeString(b, typ, "theme_id")
			if err != nil {
				return TrackerState{}, err
			}
			s.ThemeID = &v
			n = m

		case fieldUserName:
			v, m, err := consumeString(b, typ, "user_name")
			if err != nil {
				return TrackerState{}, err
			}
			s.UserName = v
			n = m

		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return TrackerState{}, decodeErrorf(protowire.ParseError(n), "malformed unknown field %d", num)
			}
		}
		b = b[n:]
	}

	if !seenStart {
		return TrackerState{}, decodeErrorf(nil, "missing start_timestamp")
	}
	return s, nil
}

func consumeString(b []byte, typ protowire.Type, name string) (string, int, error) {
	if typ != protowire.BytesType {
		return "", 0, wireTypeError(name, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return "", 0, decodeErrorf(protowire.ParseError(n), "malformed %s", name)
	}
	if !utf8.Valid(v) {
		return "", 0, decodeErrorf(nil, "%s is not valid UTF-8", name)
	}
	return string(v), n, nil
}

func wireTypeError(name string, typ protowire.Type) *DecodeError {
	return decodeErrorf(nil, "unexpected wire type %d for %s", typ, name)
}
