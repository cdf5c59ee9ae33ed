package jsonx

import (
	jsoniter "github.com/json-iterator/go"
	"strings"
)

type camelCaseExtension struct {
	jsoniter.DummyExtension
}

func (e *camelCaseExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		tag := binding.Field.Tag().Get("json")
		if tag == "-" {
			continue
		}

		name := binding.Field.Name()
		if parts := strings.Split(tag, ","); parts[0] != "" {
			name = parts[0]
		}

		camel := toLowerCamel(name)
		if camel != name {
			binding.ToNames = []string{camel}
			binding.FromNames = []string{camel, name}
		}
	}
}

// toLowerCamel converts snake_case and PascalCase names to lowerCamelCase.
func toLowerCamel(s string) string {
	if strings.Contains(s, "_") {
		out := ""
		for _, p := range strings.Split(s, "_") {
			if p == "" {
				continue
			}
			if out == "" {
				out = strings.ToLower(p[:1]) + p[1:]
			} else {
				out += strings.ToUpper(p[:1]) + p[1:]
			}
		}
		return out
	}
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
