package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/KOMKZ/go-yogan-ioc/flagx"
	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/validator"
	"github.com/spf13/cobra"
)

// rootFlags 全局参数；带 config tag 的字段作为最高优先级配置源
type rootFlags struct {
	ConfigDir string `flag:"config-dir,c" usage:"directory holding config.yaml and <APP_ENV>.yaml" default:"./configs"`
	EnvPrefix string `flag:"env-prefix" usage:"environment variable prefix" default:"IOC"`
	MaxDepth  int    `flag:"max-depth" usage:"override resolver.max_depth" config:"resolver.max_depth"`
	LogLevel  string `flag:"log-level" usage:"override log.level" config:"log.level"`
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "iocctl",
		Short:         "Inspect and check ioc container configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return flagx.ParseFlags(cmd.Flags(), flags)
		},
	}
	if err := flagx.BindFlags(root.PersistentFlags(), flags); err != nil {
		panic(err)
	}

	configCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	configCmd.AddCommand(newShowCmd(flags), newCheckCmd(flags))
	root.AddCommand(configCmd, newSelfCheckCmd(flags))
	return root
}

func (f *rootFlags) load() (ioc.Config, error) {
	return ioc.LoadConfigWithFlags(f.ConfigDir, f.EnvPrefix, f)
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := flags.load()
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			fields := validator.Fields(err)
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", k, fields[k])
			}
			return err
		},
	}
}
