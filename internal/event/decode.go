package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. In-process events already carry T;
// anything read back from JSON arrives as a map and is re-decoded.
func DecodePayload[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}
	var out T
	raw, err := json.Marshal(payload)
	if err == nil {
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		return out, fmt.Errorf("decode %T payload: %w", out, err)
	}
	return out, nil
}
