package types

import "encoding/json"

// EncodeStoreValue converts a JSON-tagged struct into the map shape accepted
// by Store.
func EncodeStoreValue(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeStoreValue decodes a stored map into dest. Fields missing from the
// map keep the values already present in dest, so callers can pre-populate
// defaults.
func DecodeStoreValue(value map[string]any, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
