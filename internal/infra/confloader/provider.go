package confloader

import (
	"errors"
	"strings"
)

var errReadBytesNotSupported = errors.New("confloader: map provider has no byte form")

// mapProvider loads dotted keys into koanf. Keys are expanded into nested
// maps so they merge with file and env values instead of shadowing them.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any)
	for key, v := range m {
		parts := strings.Split(key, ".")
		node := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return out, nil
}
