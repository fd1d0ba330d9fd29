package cmds

import (
	"context"
	"fmt"
	"time"

	"github.com/go-go-golems/bridgelaunch/pkg/engine"
	"github.com/go-go-golems/bridgelaunch/pkg/state"
	"github.com/go-go-golems/bridgelaunch/pkg/supervise"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newUpCmd() *cobra.Command {
	var force bool
	var waitReady bool

	cmd := &cobra.Command{
		Use:   "up [name:=value ...]",
		Short: "Assemble the launch plan and start the active processes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}

			if state.Exists(opts.Root) {
				if !force {
					return errors.New("state exists; run bridgelaunch down first or use --force")
				}
				log.Info().Msg("existing state found; stopping first (--force)")
				if err := stopFromState(cmd.Context(), opts); err != nil {
					return err
				}
			}

			plan, cfg, err := assemblePlan(opts, args)
			if err != nil {
				return err
			}
			readyTimeout, err := cfg.ReadyTimeoutOr(opts.Timeout)
			if err != nil {
				return err
			}

			services, err := engine.Render(plan, engine.Options{
				Launcher:       launcherFor(opts, cfg),
				Cwd:            opts.Root,
				WaitReady:      waitReady,
				ReadyTimeoutMs: readyTimeout.Milliseconds(),
			})
			if err != nil {
				return err
			}

			sup := supervise.New(supervise.Options{Root: opts.Root, ReadyTimeout: readyTimeout, ShutdownTimeout: opts.Timeout})
			st, err := sup.Start(cmd.Context(), services)
			if err != nil {
				return err
			}
			st.Arguments = state.Sanitize(plan.Values())
			if err := state.Save(opts.Root, st); err != nil {
				_ = sup.Stop(context.Background(), st)
				return err
			}

			log.Info().
				Int("services", len(st.Services)).
				Stringer("bridge", plan.Bridge.Active()).
				Msg("up complete")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Stop existing state before starting")
	cmd.Flags().BoolVar(&waitReady, "wait-ready", false, "Wait until the bridge accepts TCP connections on address:port")
	return cmd
}

func stopFromState(ctx context.Context, opts rootOptions) error {
	st, err := state.Load(opts.Root)
	if err != nil {
		return err
	}
	sup := supervise.New(supervise.Options{Root: opts.Root, ShutdownTimeout: opts.Timeout})
	stopCtx, cancel := context.WithTimeout(ctx, opts.Timeout+5*time.Second)
	defer cancel()
	if err := sup.Stop(stopCtx, st); err != nil {
		log.Warn().Err(err).Msg("some services did not stop cleanly")
	}
	return state.Remove(opts.Root)
}
