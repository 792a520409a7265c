package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/blogmath/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML config files, such
// as the one written by the init command:
//
//	log-level: debug
//	log-pretty: false
//	max-depth: 500
//
// Keys may use underscores in place of hyphens, and nested maps are joined
// with hyphens, so the following is equivalent to the first two lines above:
//
//	log:
//	  level: debug
//	  pretty: false
//
// An unreadable or malformed file is logged and ignored. Command-line flags
// override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && err != io.EOF {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		conf := make(config)
		conf.flatten("", doc)

		log.TraceContext(ctx, "configuration loaded",
			slog.Int("keys", len(conf)),
		)

		return conf, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found: kong uses the default.
	return nil, nil
}

// flatten adds the entries of m to c, joining nested keys with hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts a decoded YAML value to a form kong can map onto a flag.
// Numbers become strings, and lists become comma-separated strings.
func scalar(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(parts, ",")

	default:
		return v
	}
}
