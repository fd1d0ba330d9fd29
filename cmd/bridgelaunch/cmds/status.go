package cmds

import (
	"encoding/json"
	"fmt"

	"github.com/go-go-golems/bridgelaunch/pkg/render"
	"github.com/go-go-golems/bridgelaunch/pkg/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var format string
	var tailLines int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of supervised processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			st, err := state.Load(opts.Root)
			if err != nil {
				return err
			}

			if format == "table" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Status(themeFor(cmd, false), st, state.ProcessAlive))
				return nil
			}
			if format != "json" {
				return errors.Errorf("unknown format %q (json|table)", format)
			}

			type svc struct {
				Name       string   `json:"name"`
				PID        int      `json:"pid"`
				Alive      bool     `json:"alive"`
				Stdout     string   `json:"stdout_log"`
				Stderr     string   `json:"stderr_log"`
				StderrTail []string `json:"stderr_tail,omitempty"`
			}
			services := []svc{}
			for _, s := range st.Services {
				alive := state.ProcessAlive(s.PID)
				var tail []string
				if !alive && tailLines > 0 {
					if lines, err := state.TailLines(s.StderrLog, tailLines, 2<<20); err == nil {
						tail = lines
					}
				}
				services = append(services, svc{
					Name:       s.Name,
					PID:        s.PID,
					Alive:      alive,
					Stdout:     s.StdoutLog,
					Stderr:     s.StderrLog,
					StderrTail: tail,
				})
			}

			b, err := json.MarshalIndent(map[string]any{
				"arguments": st.Arguments,
				"services":  services,
			}, "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshal status")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|table")
	cmd.Flags().IntVar(&tailLines, "tail-lines", 25, "How many stderr lines to include for dead processes")
	return cmd
}
