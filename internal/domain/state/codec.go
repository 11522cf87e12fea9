package state

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEncoding marks values the codec cannot represent and malformed tokens.
var ErrEncoding = errors.New("state encoding error")

// maxValueDepth bounds nesting of sequences and mappings inside one input value.
const maxValueDepth = 16

// Token is the transport-safe representation of a snapshot. The payload is
// canonical JSON wrapped in unpadded base64url, so a token drops into a URL
// query component without further escaping.
type Token string

type Codec struct{}

func (Codec) Encode(s Snapshot) (Token, error) {
	for name, v := range s {
		if err := checkValue(v, 0); err != nil {
			return "", fmt.Errorf("input %q: %w", name, err)
		}
	}
	b, err := json.Marshal(map[string]any(s))
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", ErrEncoding)
	}
	return Token(base64.RawURLEncoding.EncodeToString(b)), nil
}

func (Codec) Decode(t Token) (Snapshot, error) {
	if t == "" {
		return nil, fmt.Errorf("empty token: %w", ErrEncoding)
	}
	b, err := base64.RawURLEncoding.DecodeString(string(t))
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", ErrEncoding)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("malformed token payload: %w", ErrEncoding)
	}
	return Snapshot(out), nil
}

func checkValue(v any, depth int) error {
	if depth > maxValueDepth {
		return fmt.Errorf("nesting deeper than %d: %w", maxValueDepth, ErrEncoding)
	}
	switch t := v.(type) {
	case nil, bool, string, json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case []any:
		for _, e := range t {
			if err := checkValue(e, depth+1); err != nil {
				return err
			}
		}
		return nil
	case []string:
		return nil
	case []float64:
		return nil
	case []int:
		return nil
	case map[string]any:
		for _, e := range t {
			if err := checkValue(e, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported value type %T: %w", v, ErrEncoding)
	}
}
