package launch

// SSLOption is the option that selects between the bridge variants.
const SSLOption = "ssl"

// Condition gates a process spec on a boolean option. Negate turns it into
// an unless-condition.
type Condition struct {
	Option string `json:"option" yaml:"option"`
	Negate bool   `json:"negate,omitempty" yaml:"negate,omitempty"`
}

func IfCondition(option string) *Condition {
	return &Condition{Option: option}
}

func UnlessCondition(option string) *Condition {
	return &Condition{Option: option, Negate: true}
}

// Evaluate reports whether the condition holds for lookup. A nil condition
// always holds.
func (c *Condition) Evaluate(lookup func(string) (string, bool)) (bool, error) {
	if c == nil {
		return true, nil
	}
	raw, ok := lookup(c.Option)
	if !ok {
		return false, &UndeclaredOptionError{Name: c.Option, Context: "condition"}
	}
	b, ok := parseBoolLiteral(raw)
	if !ok {
		return false, &InvalidConditionError{Option: c.Option, Value: raw}
	}
	return b != c.Negate, nil
}

// ResolveCondition evaluates the ssl option. Defaults and overrides are
// treated the same.
func ResolveCondition(values Values) (bool, error) {
	return IfCondition(SSLOption).Evaluate(values.Get)
}
