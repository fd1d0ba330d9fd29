package cmds

import (
	"fmt"

	"github.com/go-go-golems/bridgelaunch/pkg/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop the supervised processes and remove state",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			if !state.Exists(opts.Root) {
				return errors.New("no state found; nothing to stop")
			}
			if err := stopFromState(cmd.Context(), opts); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
