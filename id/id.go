// Package id generates prefixed unique record ids.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used by each collection.
const (
	Draft    = "draft"
	Template = "tpl"
	Library  = "lib"
	Task     = "task"
)

// Generate returns prefix-nanoid, e.g. "tpl-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	v, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + v, nil
}
