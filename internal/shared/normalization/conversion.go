package normalization

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AsString trims and returns the string representation of value when possible.
// Numbers are formatted without exponent so numeric ids survive the round trip.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

// AsInt coerces numeric values supported by the REST layer into Go ints.
// Numeric strings are accepted as well, anything else yields zero.
func AsInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	case int:
		return typed
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case json.Number:
		if parsed, err := typed.Int64(); err == nil {
			return int(parsed)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return parsed
		}
	}
	return 0
}

// AsBool accepts booleans and their common textual forms.
func AsBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	case float64:
		return typed != 0
	case int:
		return typed != 0
	default:
		return false
	}
}

// contentTextKeys is the lookup order for localized content objects.
var contentTextKeys = []string{"text", "es", "en"}

// ContentText extracts the display text of a content value. Content values are
// either plain strings or objects such as {"text": "..."} or {"es": "...", "en": "..."}.
// Raw JSON (as stored in jsonb/text columns) is decoded first.
func ContentText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case json.RawMessage:
		return ContentText(decodeJSON(typed))
	case []byte:
		return ContentText(decodeJSON(typed))
	case string:
		trimmed := strings.TrimSpace(typed)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "\"") {
			if decoded := decodeJSON([]byte(trimmed)); decoded != nil {
				if s, ok := decoded.(string); ok {
					return strings.TrimSpace(s)
				}
				if _, ok := decoded.(map[string]any); ok {
					return ContentText(decoded)
				}
			}
		}
		return trimmed
	case map[string]any:
		for _, key := range contentTextKeys {
			if text := AsString(typed[key]); text != "" {
				return text
			}
			if b, ok := typed[key].(bool); ok {
				return strconv.FormatBool(b)
			}
		}
		return ""
	default:
		return AsString(typed)
	}
}

func decodeJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}
