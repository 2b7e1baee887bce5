// Package problem loads the documents the CLI sends to the judge (problems,
// test cases, judge records) from local files or MinIO objects.
package problem

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = fmt.Errorf("unknown document format")

// FormatOf picks the format from the file extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnknownFormat, name)
}

// Decode parses b into a JSON-encodable document.
func Decode(b []byte, f Format) (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(b, &doc)
	case FormatTOML:
		err = toml.Unmarshal(b, &doc)
	case FormatYAML:
		raw := make(map[interface{}]interface{})
		err = yaml.Unmarshal(b, &raw)
		if err == nil {
			doc, err = stringKeys(raw)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func stringKeys(m map[interface{}]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		ks, ok := k.(string)
		if !ok {
			ks = fmt.Sprint(k)
		}
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[ks] = nv
	}
	return out, nil
}

// yaml.v2 decodes nested mappings as map[interface{}]interface{}, which
// encoding/json refuses.
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		return stringKeys(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return v, nil
}
