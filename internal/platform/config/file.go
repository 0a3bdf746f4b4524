package config

import (
	"os"
	"regexp"

	perr "bazaar/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} references with environment values
func ExpandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		def := ""
		for i := 0; i+1 < len(name); i++ {
			if name[i] == ':' && name[i+1] == '-' {
				name, def = name[:i], name[i+2:]
				break
			}
		}
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		return def
	})
}

// LoadYAML reads path, expands env references and decodes it into a T
func LoadYAML[T any](path string) (T, error) {
	var out T
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeNotFound, "read config file %s", path)
	}
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(raw))), &out); err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse config file %s", path)
	}
	return out, nil
}
