package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

// propertiesCodec reads and writes "key=value" files for viper, which no
// longer ships a decoder for them. Dotted keys become nested maps, the way
// viper addresses them.
type propertiesCodec struct{}

var _ viper.Codec = propertiesCodec{}

func (propertiesCodec) Decode(b []byte, v map[string]any) error {
	p := properties.NewProperties()
	p.DisableExpansion = true
	if err := p.Load(b, properties.UTF8); err != nil {
		return errors.Wrap(err, "[CONFIG] decode properties")
	}

	for _, key := range p.Keys() {
		value, _ := p.Get(key)

		path := strings.Split(key, ".")
		m := v
		for _, k := range path[:len(path)-1] {
			next, ok := m[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[k] = next
			}
			m = next
		}
		m[path[len(path)-1]] = value
	}
	return nil
}

func (propertiesCodec) Encode(v map[string]any) ([]byte, error) {
	flat := map[string]string{}
	flatten("", v, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, k := range keys {
		if _, _, err := p.Set(k, flat[k]); err != nil {
			return nil, errors.Wrapf(err, "[CONFIG] encode %s", k)
		}
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, errors.Wrap(err, "[CONFIG] encode properties")
	}
	return buf.Bytes(), nil
}

func flatten(prefix string, v map[string]any, out map[string]string) {
	for k, value := range v {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := value.(map[string]any); ok {
			flatten(key, m, out)
			continue
		}
		out[key] = toString(value)
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// newViper returns a viper instance that understands properties files.
func newViper() *viper.Viper {
	codecs := viper.NewCodecRegistry()
	// Registering a fixed, valid format name can not fail.
	_ = codecs.RegisterCodec("properties", propertiesCodec{})
	return viper.NewWithOptions(viper.WithCodecRegistry(codecs))
}
