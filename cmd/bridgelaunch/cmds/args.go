package cmds

import (
	"fmt"

	"github.com/go-go-golems/bridgelaunch/pkg/launch"
	"github.com/go-go-golems/bridgelaunch/pkg/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newArgsCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Show the declared launch arguments and their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := launch.NewDefaultAssembler()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Arguments(themeFor(cmd, plain), a.Options()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable terminal styling")
	return cmd
}

func addFormatFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVar(target, "format", "json", "Output format: json|yaml|table")
}
