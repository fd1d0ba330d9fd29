package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseArguments parses launch arguments of the form name:=value.
func ParseArguments(args []string) (map[string]string, error) {
	out := map[string]string{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":=")
		if !ok {
			return nil, errors.Errorf("malformed launch argument %q (expected name:=value)", arg)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Errorf("launch argument %q has empty name", arg)
		}
		out[name] = value
	}
	return out, nil
}

// Merge overlays layers in order; later layers win.
func Merge(layers ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return formatFloat(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", errors.Errorf("unsupported value type %T", v)
	}
}

// formatFloat keeps a decimal point on whole numbers so 5.0 stays a double
// when handed to the node's parameter parser.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}
