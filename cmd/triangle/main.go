// Command triangle opens a window and brings up a Vulkan presentation
// session on the best adapter, then idles until the window is closed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/andewx/vkboot"
	"github.com/spf13/cobra"
	"github.com/xlab/catcher"
)

func init() {
	// GLFW needs the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath  string
	diagnostics bool
	width       int
	height      int
	logLevel    string
	logFile     string
}

func main() {
	defer catcher.Catch(
		catcher.RecvLog(true),
		catcher.RecvDie(1),
	)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "triangle:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "triangle",
		Short:         "Bring up a Vulkan presentation session in a window",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	flags.BoolVar(&opts.diagnostics, "diagnostics", false, "enable validation layers and the diagnostic sink")
	flags.IntVar(&opts.width, "width", 0, "window width in pixels")
	flags.IntVar(&opts.height, "height", 0, "window height in pixels")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

func newConfigCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the default configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return vkboot.WriteConfig(out, vkboot.DefaultConfig())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "triangle.toml", "destination file")
	return cmd
}

// loadConfig layers flags over the config file over the defaults.
func loadConfig(cmd *cobra.Command, opts *options) (*vkboot.Config, error) {
	cfg := vkboot.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = vkboot.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("diagnostics") {
		cfg.Diagnostics = opts.diagnostics
	}
	if flags.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *vkboot.Config) error {
	log, closer, err := vkboot.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	display, err := vkboot.NewDisplay(cfg.Window)
	if err != nil {
		return err
	}
	defer display.Destroy()

	if err := vkboot.InitLoader(); err != nil {
		return err
	}

	core, err := vkboot.NewCore(cfg, vkboot.NewVulkanRuntime(), display, vkboot.WithLogger(log))
	if err != nil {
		return err
	}
	defer core.Destroy()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Info("running", "adapter", core.Selection().Properties.Name)
	return core.Run(ctx, nil)
}
