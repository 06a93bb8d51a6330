package main

import (
	"fmt"

	"github.com/phanxgames/glowfield/internal/config"
	"github.com/phanxgames/glowfield/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app carries state shared by every subcommand once the root command's
// pre-run hook has loaded configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "glowfield",
		Short:         "Mouse-reactive particle background",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync(a.log)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./glowfield.yaml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this rotating file")
	pf.Int("width", 0, "viewport width in logical pixels")
	pf.Int("height", 0, "viewport height in logical pixels")
	pf.Int("particles", 0, "fixed particle count (0 applies the device policy)")
	pf.Bool("low-power", false, "treat the device as low power")
	pf.Uint64("seed", 0, "random seed for particle placement (0: run picks a random seed, simulate uses 1)")
	a.bind(pf.Lookup("log-level"), "logger.level")
	a.bind(pf.Lookup("log-file"), "logger.log_file")
	a.bind(pf.Lookup("width"), "window.width")
	a.bind(pf.Lookup("height"), "window.height")
	a.bind(pf.Lookup("particles"), "field.particles")
	a.bind(pf.Lookup("low-power"), "field.low_power")
	a.bind(pf.Lookup("seed"), "field.seed")

	root.AddCommand(newRunCmd(a), newSimulateCmd(a), newVersionCmd())
	return root
}

// bind ties a flag to a config key. Only flags the user actually sets
// override file and environment values.
func (a *app) bind(flag *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = observability.NewStderrLogger(cfg.Logger)
	a.log.Debug("configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}
