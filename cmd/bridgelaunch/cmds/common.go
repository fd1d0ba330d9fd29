package cmds

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-go-golems/bridgelaunch/pkg/config"
	"github.com/go-go-golems/bridgelaunch/pkg/launch"
	"github.com/go-go-golems/bridgelaunch/pkg/render"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	Root     string
	Config   string
	Launcher string
	Timeout  time.Duration
}

func AddRootFlags(root *cobra.Command) {
	addRootFlags(root.PersistentFlags())
}

func addRootFlags(fs *pflag.FlagSet) {
	fs.String("root", "", "Working root for state and logs (defaults to current directory)")
	fs.String("config", "", "Path to override file (defaults to .bridgelaunch.yaml under root; .toml also accepted)")
	fs.String("launcher", "", "ros2 executable used to start nodes (defaults to config launcher or ros2)")
	fs.Duration("timeout", 30*time.Second, "Readiness and shutdown timeout")
}

func getRootOptions(cmd *cobra.Command) (rootOptions, error) {
	fs := cmd.Root().PersistentFlags()
	root, err := fs.GetString("root")
	if err != nil {
		return rootOptions{}, err
	}
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return rootOptions{}, err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return rootOptions{}, err
	}

	cfgPath, err := fs.GetString("config")
	if err != nil {
		return rootOptions{}, err
	}
	if cfgPath == "" {
		cfgPath = config.DefaultPath(root)
	} else if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(root, cfgPath)
	}

	launcher, err := fs.GetString("launcher")
	if err != nil {
		return rootOptions{}, err
	}
	timeout, err := fs.GetDuration("timeout")
	if err != nil {
		return rootOptions{}, err
	}
	if timeout <= 0 {
		return rootOptions{}, errors.New("timeout must be > 0")
	}

	return rootOptions{
		Root:     root,
		Config:   cfgPath,
		Launcher: launcher,
		Timeout:  timeout,
	}, nil
}

// assemblePlan merges file and command-line overrides and assembles the plan.
func assemblePlan(opts rootOptions, args []string) (*launch.LaunchPlan, *config.File, error) {
	cfg, err := config.LoadOptional(opts.Config)
	if err != nil {
		return nil, nil, err
	}
	fileOverrides, err := cfg.Overrides()
	if err != nil {
		return nil, nil, errors.Wrap(err, opts.Config)
	}
	cliOverrides, err := config.ParseArguments(args)
	if err != nil {
		return nil, nil, err
	}
	overrides := config.Merge(fileOverrides, cliOverrides)

	a, err := launch.NewDefaultAssembler()
	if err != nil {
		return nil, nil, err
	}
	plan, err := a.Assemble(overrides)
	if err != nil {
		return nil, nil, errors.Wrap(err, "assemble launch plan")
	}
	log.Debug().
		Int("overrides", len(overrides)).
		Stringer("bridge", plan.Bridge.Active()).
		Msg("launch plan assembled")
	return plan, cfg, nil
}

func launcherFor(opts rootOptions, cfg *config.File) string {
	if opts.Launcher != "" {
		return opts.Launcher
	}
	return cfg.LauncherOrDefault()
}

func themeFor(cmd *cobra.Command, plain bool) render.Theme {
	if plain {
		return render.PlainTheme()
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return render.DefaultTheme()
	}
	return render.PlainTheme()
}
