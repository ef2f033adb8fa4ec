package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tinyrender/config"
	"github.com/chrisuehlinger/tinyrender/observability"
)

type contextKey string

const configKey contextKey = "config"

var cfgFile string

// flagKeys maps command line flags to the config keys they override. A flag
// only takes effect on commands that declare it.
var flagKeys = map[string]string{
	"width":   "viewport.width",
	"height":  "viewport.height",
	"backend": "render.backend",
	"format":  "render.format",
	"script":  "script.enabled",
	"timeout": "network.timeout",
	"no-ua":   "render.no_user_agent_stylesheet",
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tinyrender",
		Short:         "tinyrender renders HTML and CSS into an image.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			if v.GetBool("render.no_user_agent_stylesheet") {
				cfg.Render.UserAgentStylesheet = false
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting tinyrender",
				zap.String("version", Version),
				zap.String("command", cmd.Name()),
				zap.String("config_file", v.ConfigFileUsed()))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}
	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tinyrender.yaml or $HOME/.config/tinyrender/tinyrender.yaml)")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer observability.Sync()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		os.Exit(1)
	}
}

// initializeConfig layers the config file, the environment and the flags of
// cmd onto v.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tinyrender"))
		}
		v.SetConfigName("tinyrender")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("binding --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// configFrom returns the configuration stored by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.NewDefaultConfig()
}

// addRenderFlags declares the flags shared by render and view.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("html", "H", "", "document to render: a path, file://, http(s):// or data: URL (required)")
	cmd.Flags().StringP("css", "c", "", "stylesheet to apply, same forms as --html")
	cmd.Flags().Int("width", 800, "viewport width in pixels")
	cmd.Flags().Int("height", 600, "viewport height in pixels")
	cmd.Flags().String("backend", "raster", "rasterizer backend: raster or gg")
	cmd.Flags().Bool("script", false, "run inline <script> elements before styling")
	cmd.Flags().Duration("timeout", 0, "network timeout for http(s) resources")
	cmd.Flags().Bool("no-ua", false, "do not apply the built-in user agent stylesheet")
	_ = cmd.MarkFlagRequired("html")
}
