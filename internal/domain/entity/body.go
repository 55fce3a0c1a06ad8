package entity

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Body is a decoded backend response. Its shape is owned by the backend and
// passed through untouched: most endpoints answer with an object, but any
// JSON value (a bare listing array, a scalar) is kept as is.
type Body struct {
	value any
}

// NewBody wraps an already decoded JSON value.
func NewBody(value any) Body {
	return Body{value: value}
}

// Value returns the decoded JSON value: map[string]any, []any, string,
// float64, bool or nil.
func (b Body) Value() any {
	return b.value
}

// Object returns the body as an object, if it is one.
func (b Body) Object() (map[string]any, bool) {
	object, ok := b.value.(map[string]any)

	return object, ok
}

// Field returns the top-level field key of an object body, nil otherwise.
func (b Body) Field(key string) any {
	object, ok := b.Object()
	if !ok {
		return nil
	}

	return object[key]
}

// Message returns the human readable "message" field, or "" if absent.
func (b Body) Message() string {
	msg, _ := b.Field("message").(string)

	return msg
}

// Narrow decodes the field stored under key into out using mapstructure tags.
// An empty key narrows the whole body, whatever its JSON type.
func (b Body) Narrow(key string, out any) error {
	input := b.value
	if key != "" {
		object, ok := b.Object()
		if !ok {
			return errors.Errorf("response body is %T, not an object with a %q field", b.value, key)
		}
		value, ok := object[key]
		if !ok {
			return errors.Errorf("response body has no %q field", key)
		}
		input = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := decoder.Decode(input); err != nil {
		return errors.Wrapf(err, "narrow %q", key)
	}

	return nil
}

// MarshalJSON writes the wrapped value back out unchanged.
func (b Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.value)
}

// UnmarshalJSON accepts any JSON value.
func (b *Body) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	b.value = value

	return nil
}
