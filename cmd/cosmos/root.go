package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/living-cosmos/config"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

// app carries what PersistentPreRunE resolved to the subcommands
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "cosmos",
		Short:         "A living cosmos in your terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Prepare(a.v, a.cfgFile); err != nil {
				return err
			}
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			cfg, err := config.NewConfigFromViper(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./config.yaml or ~/.config/living-cosmos/config.yaml)")
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	root.AddCommand(newRunCmd(a), newServeCmd(a), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// config is not needed to print a version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
