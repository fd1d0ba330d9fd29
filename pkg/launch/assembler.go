package launch

import "encoding/json"

// Declaration is a declared option together with its resolved value.
type Declaration struct {
	Option `yaml:",inline"`
	Value  string `json:"value" yaml:"value"`
}

type LaunchPlan struct {
	Declarations []Declaration
	Companion    ProcessSpec
	Bridge       BridgeSelection
}

// Processes returns the process specs in launch order: companion, TLS
// bridge, non-TLS bridge. Both bridge variants are always present.
func (p *LaunchPlan) Processes() []ProcessSpec {
	return []ProcessSpec{
		p.Companion,
		p.Bridge.Spec(VariantTLS),
		p.Bridge.Spec(VariantPlain),
	}
}

func (p *LaunchPlan) ActiveBridge() ProcessSpec {
	return p.Bridge.Spec(p.Bridge.Active())
}

func (p *LaunchPlan) Value(name string) (string, bool) {
	for _, d := range p.Declarations {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

func (p *LaunchPlan) Values() Values {
	out := make(Values, len(p.Declarations))
	for _, d := range p.Declarations {
		out[d.Name] = d.Value
	}
	return out
}

type planView struct {
	Declarations []Declaration `json:"declarations" yaml:"declarations"`
	ActiveBridge Variant       `json:"active_bridge" yaml:"active_bridge"`
	Processes    []ProcessSpec `json:"processes" yaml:"processes"`
}

func (p *LaunchPlan) view() planView {
	return planView{
		Declarations: p.Declarations,
		ActiveBridge: p.Bridge.Active(),
		Processes:    p.Processes(),
	}
}

func (p *LaunchPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.view())
}

func (p *LaunchPlan) MarshalYAML() (any, error) {
	v := p.view()
	return struct {
		Declarations []Declaration `yaml:"declarations"`
		ActiveBridge string        `yaml:"active_bridge"`
		Processes    []ProcessSpec `yaml:"processes"`
	}{v.Declarations, v.ActiveBridge.String(), v.Processes}, nil
}

// Assembler turns a fixed option set plus overrides into a LaunchPlan. It is
// immutable once constructed.
type Assembler struct {
	options []Option
	index   map[string]int
}

func NewAssembler(options []Option) (*Assembler, error) {
	a := &Assembler{
		options: make([]Option, 0, len(options)),
		index:   make(map[string]int, len(options)),
	}
	for _, o := range options {
		if _, ok := a.index[o.Name]; ok {
			return nil, &DuplicateOptionError{Name: o.Name}
		}
		if err := o.validate(); err != nil {
			return nil, err
		}
		a.index[o.Name] = len(a.options)
		a.options = append(a.options, o)
	}
	return a, nil
}

// NewDefaultAssembler builds an assembler over DeclareOptions.
func NewDefaultAssembler() (*Assembler, error) {
	return NewAssembler(DeclareOptions())
}

func (a *Assembler) Options() []Option {
	return append([]Option(nil), a.options...)
}

func (a *Assembler) Declared(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Resolve overlays overrides on the declared defaults.
func (a *Assembler) Resolve(overrides map[string]string) (Values, error) {
	for name := range overrides {
		if !a.Declared(name) {
			return nil, &UndeclaredOptionError{Name: name, Context: "override"}
		}
	}
	out := make(Values, len(a.options))
	for _, o := range a.options {
		if v, ok := overrides[o.Name]; ok {
			out[o.Name] = v
			continue
		}
		out[o.Name] = o.DefaultValue()
	}
	return out, nil
}

// BuildProcessSpecs returns the rosapi spec, the TLS bridge spec and the
// non-TLS bridge spec, in that order. Exactly one bridge is marked active.
func (a *Assembler) BuildProcessSpecs(values Values, ssl bool) []ProcessSpec {
	ref := func(key, option string) Param {
		return Param{Key: key, Option: option, Value: values[option]}
	}
	discovery := func() []Param {
		return []Param{
			ref("topics_glob", "topics_glob"),
			ref(ServicesGlobParam, "services_glob"),
			ref("params_glob", "params_glob"),
		}
	}

	head := []Param{
		ref("port", "port"),
		ref("address", "address"),
	}
	tail := append([]Param{
		ref("retry_startup_delay", "retry_startup_delay"),
		ref("fragment_timeout", "fragment_timeout"),
		ref("delay_between_messages", "delay_between_messages"),
		ref("max_message_size", "max_message_size"),
		ref("unregister_timeout", "unregister_timeout"),
		ref("use_compression", "use_compression"),
	}, discovery()...)

	tlsParams := make([]Param, 0, len(head)+2+len(tail))
	tlsParams = append(tlsParams, head...)
	tlsParams = append(tlsParams, ref("certfile", "certfile"), ref("keyfile", "keyfile"))
	tlsParams = append(tlsParams, tail...)

	plainParams := make([]Param, 0, len(head)+len(tail))
	plainParams = append(plainParams, head...)
	plainParams = append(plainParams, tail...)

	ns := values["namespace"]
	bridge := Identity{Package: BridgePackage, Executable: BridgeExecutable, Name: BridgeName, Namespace: ns}

	return []ProcessSpec{
		{
			Identity:      Identity{Package: APIPackage, Executable: APIExecutable, Name: APIName, Namespace: ns},
			NamespaceFrom: "namespace",
			Output:        OutputScreen,
			Params:        discovery(),
			Active:        true,
		},
		{
			Identity:      bridge,
			NamespaceFrom: "namespace",
			Output:        OutputScreen,
			Condition:     IfCondition(SSLOption),
			Params:        tlsParams,
			Active:        ssl,
		},
		{
			Identity:      bridge,
			NamespaceFrom: "namespace",
			Output:        OutputScreen,
			Condition:     UnlessCondition(SSLOption),
			Params:        plainParams,
			Active:        !ssl,
		},
	}
}

// Assemble resolves overrides, evaluates the ssl condition and builds the
// plan. Any error aborts the whole plan.
func (a *Assembler) Assemble(overrides map[string]string) (*LaunchPlan, error) {
	values, err := a.Resolve(overrides)
	if err != nil {
		return nil, err
	}
	ssl, err := ResolveCondition(values)
	if err != nil {
		return nil, err
	}
	specs := a.BuildProcessSpecs(values, ssl)
	for _, s := range specs {
		for _, name := range s.References() {
			if !a.Declared(name) {
				return nil, &UndeclaredOptionError{Name: name, Context: s.Identity.Name}
			}
		}
	}

	decls := make([]Declaration, 0, len(a.options))
	for _, o := range a.options {
		decls = append(decls, Declaration{Option: o, Value: values[o.Name]})
	}
	return &LaunchPlan{
		Declarations: decls,
		Companion:    specs[0],
		Bridge: BridgeSelection{
			active: variantFor(ssl),
			tls:    specs[1],
			plain:  specs[2],
		},
	}, nil
}
