package cmds

import (
	"encoding/json"
	"fmt"

	"github.com/go-go-golems/bridgelaunch/pkg/engine"
	"github.com/go-go-golems/bridgelaunch/pkg/render"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlanCmd() *cobra.Command {
	var format string
	var rendered bool

	cmd := &cobra.Command{
		Use:   "plan [name:=value ...]",
		Short: "Assemble the launch plan (declarations + process specs) without starting anything",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			plan, cfg, err := assemblePlan(opts, args)
			if err != nil {
				return err
			}

			var out any = plan
			if rendered {
				services, err := engine.Render(plan, engine.Options{Launcher: launcherFor(opts, cfg)})
				if err != nil {
					return err
				}
				out = services
			}

			switch format {
			case "json":
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshal plan")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			case "yaml":
				b, err := yaml.Marshal(out)
				if err != nil {
					return errors.Wrap(err, "marshal plan")
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(b))
			case "table":
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Processes(themeFor(cmd, false), plan))
			default:
				return errors.Errorf("unknown format %q (json|yaml|table)", format)
			}
			log.Info().Stringer("bridge", plan.Bridge.Active()).Msg("plan computed")
			return nil
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	cmd.Flags().BoolVar(&rendered, "rendered", false, "Print the ros2 commands the plan resolves to instead of the plan")
	return cmd
}
