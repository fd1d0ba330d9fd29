package launch

const (
	BridgePackage    = "rosbridge_server"
	BridgeExecutable = "rosbridge_websocket"
	BridgeName       = "rosbridge_websocket"

	APIPackage    = "rosapi"
	APIExecutable = "rosapi_node"
	APIName       = "rosapi"

	OutputScreen = "screen"

	// ServicesGlobParam is the key the launched nodes receive services_glob
	// under. The spelling is what the downstream nodes have always been
	// given; do not correct it here without changing them too.
	ServicesGlobParam = "serices_glob"
)

type Identity struct {
	Package    string `json:"package" yaml:"package"`
	Executable string `json:"executable" yaml:"executable"`
	Name       string `json:"name" yaml:"name"`
	Namespace  string `json:"namespace" yaml:"namespace"`
}

// Param is one forwarded node parameter: the declared option it reads and
// the value that option resolved to.
type Param struct {
	Key    string `json:"key" yaml:"key"`
	Option string `json:"option" yaml:"option"`
	Value  string `json:"value" yaml:"value"`
}

type ProcessSpec struct {
	Identity      Identity   `json:"identity" yaml:"identity"`
	NamespaceFrom string     `json:"namespace_from,omitempty" yaml:"namespace_from,omitempty"`
	Output        string     `json:"output" yaml:"output"`
	Condition     *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params        []Param    `json:"parameters" yaml:"parameters"`
	Active        bool       `json:"active" yaml:"active"`
}

func (p ProcessSpec) Param(key string) (Param, bool) {
	for _, prm := range p.Params {
		if prm.Key == key {
			return prm, true
		}
	}
	return Param{}, false
}

func (p ProcessSpec) ParamKeys() []string {
	out := make([]string, 0, len(p.Params))
	for _, prm := range p.Params {
		out = append(out, prm.Key)
	}
	return out
}

// References lists every option name the spec depends on.
func (p ProcessSpec) References() []string {
	var out []string
	if p.NamespaceFrom != "" {
		out = append(out, p.NamespaceFrom)
	}
	if p.Condition != nil {
		out = append(out, p.Condition.Option)
	}
	for _, prm := range p.Params {
		if prm.Option != "" {
			out = append(out, prm.Option)
		}
	}
	return out
}

type Variant int

const (
	VariantPlain Variant = iota
	VariantTLS
)

func (v Variant) String() string {
	if v == VariantTLS {
		return "tls"
	}
	return "plain"
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func variantFor(ssl bool) Variant {
	if ssl {
		return VariantTLS
	}
	return VariantPlain
}

// BridgeSelection holds both bridge variants and the single one that is
// active. Active flags on the returned specs derive from that one field.
type BridgeSelection struct {
	active Variant
	tls    ProcessSpec
	plain  ProcessSpec
}

func (b BridgeSelection) Active() Variant {
	return b.active
}

func (b BridgeSelection) Spec(v Variant) ProcessSpec {
	var out ProcessSpec
	if v == VariantTLS {
		out = b.tls
	} else {
		out = b.plain
	}
	out.Params = append([]Param(nil), out.Params...)
	out.Active = v == b.active
	return out
}
