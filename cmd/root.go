package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"db-compare/internal/config"
	"db-compare/internal/logger"
)

var (
	cfgFile string
	Cfg     *config.Config
	Log     *zap.Logger
)

var RootCmd = &cobra.Command{
	Use:   "db-compare",
	Short: "A cross-database table reconciliation tool",
	Long: `
  ____  ____     ____ ___  __  __ ____   _    ____  _____
 |  _ \| __ )   / ___/ _ \|  \/  |  _ \ / \  |  _ \| ____|
 | | | |  _ \  | |  | | | | |\/| | |_) / _ \ | |_) |  _|
 | |_| | |_) | | |__| |_| | |  | |  __/ ___ \|  _ <| |___
 |____/|____/   \____\___/|_|  |_|_| /_/   \_\_| \_\_____|

DB COMPARE - row-level diff and reconciliation scripts between two databases
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if used := viper.ConfigFileUsed(); used != "" {
			dir = filepath.Dir(used)
		}
		cfg, err := config.Load(viper.GetViper(), dir)
		if err != nil {
			return err
		}
		Cfg = cfg

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		Log = l
		if used := viper.ConfigFileUsed(); used != "" {
			Log.Debug("Using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if Log != nil {
			_ = Log.Sync()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if Log != nil {
			Log.Error("Command failed", zap.Error(err))
			_ = Log.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-compare.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", RootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-compare")
		viper.SetConfigType("yaml")
	}

	// A missing file is fine: everything can come from flags and the environment.
	_ = viper.ReadInConfig()
}
