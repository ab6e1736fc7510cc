// Package db holds helpers shared by the SQL chunk index drivers.
package db

import (
	"encoding/json"
	"fmt"
)

// EncodeEmbedding stores a vector as a JSON array so every driver can keep it in a text column.
func EncodeEmbedding(v []float32) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(b), nil
}

// DecodeEmbedding is the inverse of EncodeEmbedding. Empty input yields nil.
func DecodeEmbedding(s string) ([]float32, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var v []float32
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	return v, nil
}
