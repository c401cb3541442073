package serializer

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/collectkit/errors"
)

// Serializer converts values to and from bytes.
type Serializer interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON returns a deterministic JSON serializer.
func JSON() Serializer { return jsonSerializer{} }

// YAML returns a YAML serializer.
func YAML() Serializer { return yamlSerializer{} }

// ByName returns the serializer registered under name ("json" or "yaml",
// case-insensitive). An empty name selects JSON.
func ByName(name string) (Serializer, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON(), nil
	case "yaml", "yml":
		return YAML(), nil
	default:
		return nil, errors.InvalidConfig("unknown serializer: " + name).WithDetail("serializer", name)
	}
}

type jsonSerializer struct{}

func (jsonSerializer) Name() string { return "json" }

func (jsonSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return nil, errors.Serialization("json", err)
	}
	return data, nil
}

func (jsonSerializer) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Serialization("json", err)
	}
	return nil
}

type yamlSerializer struct{}

func (yamlSerializer) Name() string { return "yaml" }

func (yamlSerializer) Marshal(v any) (data []byte, err error) {
	// yaml.v3 panics on some unsupported values.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Serialization("yaml", fmt.Errorf("panic: %v", r))
		}
	}()
	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, errors.Serialization("yaml", err)
	}
	return data, nil
}

func (yamlSerializer) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Serialization("yaml", err)
	}
	return nil
}
