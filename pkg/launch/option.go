package launch

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
)

// Option is a named launch argument. Default is a pointer so that an empty
// string default can be told apart from no default at all.
type Option struct {
	Name        string  `json:"name" yaml:"name"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Default     *string `json:"default" yaml:"default"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

func Default(v string) *string {
	return &v
}

func (o Option) DefaultValue() string {
	if o.Default == nil {
		return ""
	}
	return *o.Default
}

func (o Option) validate() error {
	if o.Default == nil {
		return &MissingDefaultError{Name: o.Name}
	}
	if err := checkKind(o.Kind, *o.Default); err != nil {
		return &MissingDefaultError{Name: o.Name, Reason: err.Error()}
	}
	return nil
}

func checkKind(k Kind, v string) error {
	switch k {
	case KindString:
		return nil
	case KindInt:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return errors.Errorf("%q is not an int", v)
		}
	case KindFloat:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return errors.Errorf("%q is not a float", v)
		}
	case KindBool:
		if _, ok := parseBoolLiteral(v); !ok {
			return errors.Errorf("%q is not a boolean literal", v)
		}
	default:
		return errors.Errorf("unknown kind %q", k)
	}
	return nil
}

// DeclareOptions returns the launch arguments understood by the rosbridge
// websocket launch, in declaration order.
func DeclareOptions() []Option {
	return []Option{
		{Name: "namespace", Kind: KindString, Default: Default(""), Description: "Top-level namespace"},
		{Name: "port", Kind: KindInt, Default: Default("9090"), Description: "port number for socket connection"},
		{Name: "address", Kind: KindString, Default: Default(""), Description: "ip address for connection"},
		{Name: "ssl", Kind: KindBool, Default: Default("False"), Description: "Whether to use ssl"},
		{Name: "certfile", Kind: KindString, Default: Default(""), Description: "Full path to certfile"},
		{Name: "keyfile", Kind: KindString, Default: Default(""), Description: "full path to keyfile"},
		{Name: "retry_startup_delay", Kind: KindFloat, Default: Default("5.0")},
		{Name: "fragment_timeout", Kind: KindInt, Default: Default("600")},
		{Name: "delay_between_messages", Kind: KindFloat, Default: Default("0")},
		{Name: "max_message_size", Kind: KindInt, Default: Default("10000000")},
		{Name: "unregister_timeout", Kind: KindFloat, Default: Default("10.0")},
		{Name: "use_compression", Kind: KindBool, Default: Default("False")},
		{Name: "topics_glob", Kind: KindString, Default: Default("")},
		{Name: "services_glob", Kind: KindString, Default: Default("")},
		{Name: "params_glob", Kind: KindString, Default: Default("")},
		// Declared for command-line compatibility; neither process receives them.
		{Name: "bson_only_mode", Kind: KindBool, Default: Default("False")},
		{Name: "binary_encoder", Kind: KindString, Default: Default("default")},
	}
}

// Values maps option names to their resolved textual value.
type Values map[string]string

func (v Values) Get(name string) (string, bool) {
	s, ok := v[name]
	return s, ok
}

func parseBoolLiteral(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
