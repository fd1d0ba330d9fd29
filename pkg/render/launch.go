package render

import (
	"fmt"
	"strconv"

	"github.com/go-go-golems/bridgelaunch/pkg/launch"
	"github.com/go-go-golems/bridgelaunch/pkg/state"
)

// Arguments renders the declared launch arguments, like `ros2 launch --show-args`.
func Arguments(theme Theme, options []launch.Option) string {
	t := NewTable(theme, "NAME", "TYPE", "DEFAULT", "DESCRIPTION")
	for _, o := range options {
		desc := o.Description
		if desc == "" {
			desc = "-"
		}
		t.Add(Row{Cells: []string{o.Name, string(o.Kind), strconv.Quote(o.DefaultValue()), desc}})
	}
	return t.Render()
}

// Processes renders the process specs of a plan with their activation.
func Processes(theme Theme, plan *launch.LaunchPlan) string {
	t := NewTable(theme, "NAME", "PACKAGE", "EXECUTABLE", "CONDITION", "PARAMS")
	for _, p := range plan.Processes() {
		icon, style := IconInactive, theme.Inactive
		if p.Active {
			icon, style = IconSuccess, theme.Active
		}
		t.Add(Row{
			Icon:      icon,
			IconStyle: &style,
			Cells: []string{
				p.Identity.Name,
				p.Identity.Package,
				p.Identity.Executable,
				conditionString(p.Condition),
				strconv.Itoa(len(p.Params)),
			},
		})
	}
	return t.Render()
}

// Status renders supervised services with their liveness.
func Status(theme Theme, st *state.State, alive func(pid int) bool) string {
	t := NewTable(theme, "SERVICE", "PID", "STATE", "STDERR")
	for _, svc := range st.Services {
		icon, style, label := IconError, theme.Dead, "dead"
		if alive(svc.PID) {
			icon, style, label = IconSuccess, theme.Active, "alive"
		}
		t.Add(Row{
			Icon:      icon,
			IconStyle: &style,
			Cells:     []string{svc.Name, strconv.Itoa(svc.PID), label, svc.StderrLog},
		})
	}
	return t.Render()
}

func conditionString(c *launch.Condition) string {
	if c == nil {
		return "always"
	}
	if c.Negate {
		return fmt.Sprintf("unless %s", c.Option)
	}
	return fmt.Sprintf("if %s", c.Option)
}
