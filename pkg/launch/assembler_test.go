package launch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustAssembler(t *testing.T) *Assembler {
	t.Helper()
	a, err := NewDefaultAssembler()
	require.NoError(t, err)
	return a
}

func TestDeclareOptions_UniqueNamesInOrder(t *testing.T) {
	opts := DeclareOptions()
	var names []string
	seen := map[string]struct{}{}
	for _, o := range opts {
		_, dup := seen[o.Name]
		require.False(t, dup, "duplicate %s", o.Name)
		seen[o.Name] = struct{}{}
		require.NotNil(t, o.Default, "option %s has no default", o.Name)
		names = append(names, o.Name)
	}
	require.Equal(t, []string{
		"namespace", "port", "address", "ssl", "certfile", "keyfile",
		"retry_startup_delay", "fragment_timeout", "delay_between_messages",
		"max_message_size", "unregister_timeout", "use_compression",
		"topics_glob", "services_glob", "params_glob",
		"bson_only_mode", "binary_encoder",
	}, names)
}

func TestNewAssembler_DuplicateOption(t *testing.T) {
	opts := append(DeclareOptions(), Option{Name: "port", Kind: KindInt, Default: Default("1")})
	_, err := NewAssembler(opts)
	require.ErrorIs(t, err, ErrDuplicateOption)
	var dup *DuplicateOptionError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "port", dup.Name)
}

func TestNewAssembler_MissingDefault(t *testing.T) {
	_, err := NewAssembler([]Option{{Name: "port", Kind: KindInt}})
	require.ErrorIs(t, err, ErrMissingDefault)

	_, err = NewAssembler([]Option{{Name: "port", Kind: KindInt, Default: Default("ninety")}})
	require.ErrorIs(t, err, ErrMissingDefault)

	// An empty string is a usable default for string options.
	_, err = NewAssembler([]Option{{Name: "address", Kind: KindString, Default: Default("")}})
	require.NoError(t, err)
}

func TestResolveCondition_Literals(t *testing.T) {
	for _, lit := range []string{"true", "True", "TRUE", "1"} {
		b, err := ResolveCondition(Values{"ssl": lit})
		require.NoError(t, err, lit)
		require.True(t, b, lit)
	}
	for _, lit := range []string{"false", "False", "0"} {
		b, err := ResolveCondition(Values{"ssl": lit})
		require.NoError(t, err, lit)
		require.False(t, b, lit)
	}
	for _, lit := range []string{"", "yes", "on", "2", "maybe"} {
		_, err := ResolveCondition(Values{"ssl": lit})
		require.ErrorIs(t, err, ErrInvalidCondition, lit)
	}
}

func TestAssemble_InvalidSSLAbortsPlan(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(map[string]string{"ssl": "enabled"})
	require.ErrorIs(t, err, ErrInvalidCondition)
	require.Nil(t, plan)
}

func TestAssemble_UnknownOverride(t *testing.T) {
	_, err := mustAssembler(t).Assemble(map[string]string{"prot": "9091"})
	require.ErrorIs(t, err, ErrUndeclaredOption)
}

func TestAssemble_DanglingReference(t *testing.T) {
	var opts []Option
	for _, o := range DeclareOptions() {
		if o.Name != "params_glob" {
			opts = append(opts, o)
		}
	}
	a, err := NewAssembler(opts)
	require.NoError(t, err)
	_, err = a.Assemble(nil)
	require.ErrorIs(t, err, ErrUndeclaredOption)
}

func TestAssemble_Defaults(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(nil)
	require.NoError(t, err)

	require.Equal(t, VariantPlain, plan.Bridge.Active())
	procs := plan.Processes()
	require.Len(t, procs, 3)
	require.Equal(t, APIName, procs[0].Identity.Name)
	require.True(t, procs[0].Active)
	require.Nil(t, procs[0].Condition)
	require.False(t, procs[1].Active)
	require.True(t, procs[2].Active)

	bridge := plan.ActiveBridge()
	require.Equal(t, UnlessCondition(SSLOption), bridge.Condition)
	for key, want := range map[string]string{"port": "9090", "address": "", "max_message_size": "10000000"} {
		p, ok := bridge.Param(key)
		require.True(t, ok, key)
		require.Equal(t, want, p.Value, key)
	}
	_, ok := bridge.Param("certfile")
	require.False(t, ok)
}

func TestAssemble_TLSOverride(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(map[string]string{
		"ssl":      "true",
		"certfile": "/a.pem",
		"keyfile":  "/b.key",
	})
	require.NoError(t, err)
	require.Equal(t, VariantTLS, plan.Bridge.Active())

	bridge := plan.ActiveBridge()
	require.True(t, bridge.Active)
	require.Equal(t, IfCondition(SSLOption), bridge.Condition)
	cert, ok := bridge.Param("certfile")
	require.True(t, ok)
	require.Equal(t, "/a.pem", cert.Value)
	key, ok := bridge.Param("keyfile")
	require.True(t, ok)
	require.Equal(t, "/b.key", key.Value)
	port, _ := bridge.Param("port")
	require.Equal(t, "9090", port.Value)

	require.False(t, plan.Bridge.Spec(VariantPlain).Active)
}

func TestAssemble_ExactlyOneBridgeActive(t *testing.T) {
	a := mustAssembler(t)
	for _, ssl := range []string{"true", "false", "1", "0", "True", "False"} {
		plan, err := a.Assemble(map[string]string{"ssl": ssl})
		require.NoError(t, err)
		active := 0
		for _, p := range plan.Processes()[1:] {
			if p.Active {
				active++
			}
		}
		require.Equal(t, 1, active, ssl)
		require.True(t, plan.Processes()[0].Active, ssl)
	}
}

func TestAssemble_TLSParamsSupersetOfPlain(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(nil)
	require.NoError(t, err)

	tls := plan.Bridge.Spec(VariantTLS).ParamKeys()
	plain := plan.Bridge.Spec(VariantPlain).ParamKeys()
	require.Len(t, tls, len(plain)+2)

	var extra []string
	plainSet := map[string]struct{}{}
	for _, k := range plain {
		plainSet[k] = struct{}{}
	}
	for _, k := range tls {
		if _, ok := plainSet[k]; !ok {
			extra = append(extra, k)
		}
	}
	require.Equal(t, []string{"certfile", "keyfile"}, extra)
	require.Equal(t, plan.Bridge.Spec(VariantTLS).Identity, plan.Bridge.Spec(VariantPlain).Identity)
}

func TestAssemble_DeadOptionsNeverForwarded(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(map[string]string{"bson_only_mode": "true", "binary_encoder": "b64"})
	require.NoError(t, err)
	for _, p := range plan.Processes() {
		for _, prm := range p.Params {
			require.NotContains(t, []string{"bson_only_mode", "binary_encoder"}, prm.Key)
			require.NotContains(t, []string{"bson_only_mode", "binary_encoder"}, prm.Option)
		}
	}
	v, ok := plan.Value("binary_encoder")
	require.True(t, ok)
	require.Equal(t, "b64", v)
}

func TestAssemble_GlobsForwardedIdentically(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(map[string]string{"topics_glob": "/foo/*", "services_glob": "/srv/*"})
	require.NoError(t, err)

	for _, p := range []ProcessSpec{plan.Companion, plan.ActiveBridge()} {
		topics, ok := p.Param("topics_glob")
		require.True(t, ok)
		require.Equal(t, "/foo/*", topics.Value)
		services, ok := p.Param(ServicesGlobParam)
		require.True(t, ok)
		require.Equal(t, "services_glob", services.Option)
		require.Equal(t, "/srv/*", services.Value)
	}
	require.Equal(t, []string{"topics_glob", "serices_glob", "params_glob"}, plan.Companion.ParamKeys())
}

func TestAssemble_NamespaceAppliedToAll(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(map[string]string{"namespace": "robot1"})
	require.NoError(t, err)
	for _, p := range plan.Processes() {
		require.Equal(t, "robot1", p.Identity.Namespace)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	a := mustAssembler(t)
	overrides := map[string]string{"ssl": "True", "port": "9443"}
	p1, err := a.Assemble(overrides)
	require.NoError(t, err)
	p2, err := a.Assemble(overrides)
	require.NoError(t, err)
	require.Equal(t, p1, p2)

	b1, err := json.Marshal(p1)
	require.NoError(t, err)
	b2, err := json.Marshal(p2)
	require.NoError(t, err)
	require.JSONEq(t, string(b1), string(b2))
}

func TestLaunchPlan_MarshalOrder(t *testing.T) {
	plan, err := mustAssembler(t).Assemble(nil)
	require.NoError(t, err)

	b, err := json.Marshal(plan)
	require.NoError(t, err)
	var out struct {
		ActiveBridge string `json:"active_bridge"`
		Declarations []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"declarations"`
		Processes []struct {
			Identity Identity `json:"identity"`
			Active   bool     `json:"active"`
		} `json:"processes"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, "plain", out.ActiveBridge)
	require.Len(t, out.Declarations, 17)
	require.Equal(t, "namespace", out.Declarations[0].Name)
	require.Len(t, out.Processes, 3)
	require.Equal(t, APIName, out.Processes[0].Identity.Name)

	y, err := yaml.Marshal(plan)
	require.NoError(t, err)
	require.Contains(t, string(y), "active_bridge: plain")
	require.Contains(t, string(y), "name: max_message_size")
}

func TestAssembler_OptionsIsACopy(t *testing.T) {
	a := mustAssembler(t)
	opts := a.Options()
	opts[0].Name = "mutated"
	require.True(t, a.Declared("namespace"))
	require.Equal(t, "namespace", a.Options()[0].Name)
}
