package render

import (
	"strings"
	"testing"

	"github.com/go-go-golems/bridgelaunch/pkg/launch"
	"github.com/go-go-golems/bridgelaunch/pkg/state"
	"github.com/stretchr/testify/require"
)

func TestArguments_ListsEveryOption(t *testing.T) {
	out := Arguments(PlainTheme(), launch.DeclareOptions())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 18)
	require.Contains(t, lines[0], "NAME")
	require.Contains(t, out, "max_message_size")
	require.Contains(t, out, `"10000000"`)
	require.Contains(t, out, "Whether to use ssl")
}

func TestProcesses_MarksActiveBridge(t *testing.T) {
	a, err := launch.NewDefaultAssembler()
	require.NoError(t, err)
	plan, err := a.Assemble(map[string]string{"ssl": "true"})
	require.NoError(t, err)

	lines := strings.Split(Processes(PlainTheme(), plan), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[1], IconSuccess))
	require.Contains(t, lines[1], "always")
	require.True(t, strings.HasPrefix(lines[2], IconSuccess))
	require.Contains(t, lines[2], "if ssl")
	require.True(t, strings.HasPrefix(lines[3], IconInactive))
	require.Contains(t, lines[3], "unless ssl")
}

func TestStatus(t *testing.T) {
	st := &state.State{Services: []state.ServiceRecord{
		{Name: "rosapi", PID: 10},
		{Name: "rosbridge_websocket", PID: 11},
	}}
	out := Status(PlainTheme(), st, func(pid int) bool { return pid == 10 })
	require.Contains(t, out, "alive")
	require.Contains(t, out, "dead")

	require.Equal(t, "(no data)", Status(PlainTheme(), &state.State{}, func(int) bool { return false }))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab…", truncate("abcdef", 3))
}
