package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonbValue marshals v for a JSONB column.
func jsonbValue(v any) (driver.Value, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// jsonbScan decodes a JSONB column into dest.
func jsonbScan(value any, dest any, kind string) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("%s: unsupported scan type %T", kind, value)
	}

	return json.Unmarshal(raw, dest)
}

// JSONMap is a free-form object persisted as JSONB.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonbValue(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	result := make(JSONMap)
	if err := jsonbScan(value, &result, "jsonmap"); err != nil {
		return err
	}
	*m = result
	return nil
}

// StringMap is a string-to-string object persisted as JSONB (social links).
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonbValue(m)
}

func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	result := make(StringMap)
	if err := jsonbScan(value, &result, "stringmap"); err != nil {
		return err
	}
	*m = result
	return nil
}
