package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/volodymyrss/fsqueue/fsqueue"
)

// decodePayloadFile reads a YAML (or JSON, a YAML subset) document from path
// and converts it into a Variant.
func decodePayloadFile(path string) (fsqueue.Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fsqueue.Variant{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fsqueue.Variant{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	v, err := fsqueue.FromGo(raw)
	if err != nil {
		return fsqueue.Variant{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return v, nil
}

func decodePayloadFiles(paths []string) ([]fsqueue.Variant, error) {
	out := make([]fsqueue.Variant, len(paths))
	for i, p := range paths {
		v, err := decodePayloadFile(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
