package main

import (
	"os"
	"path/filepath"

	"mdocx/internal/client"
	"mdocx/internal/config"
	"mdocx/internal/download"
	"mdocx/internal/log"
	"mdocx/internal/workflow"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"service-url": "service.url",
	"output":      "output.directory",
	"debug":       "logging.debug",
	"json-logs":   "logging.json",
	"theme":       "theme.name",
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "mdocx",
		Short: "Convert Markdown files to Word documents",
		Long: banner() + `

mdocx sends Markdown files to a document conversion service and saves the
generated .docx next to your other downloads. Use it from the command line,
the terminal UI, the desktop window, or as a watched drop folder.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(v)
			if err != nil {
				return err
			}
			cfg = loaded
			configureLogging(cfg, cmd.Name() == "tui")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mdocx/config.yaml)")
	flags.String("service-url", "", "base URL of the conversion service")
	flags.StringP("output", "o", "", "directory generated documents are saved to")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("json-logs", false, "log JSON lines")
	flags.String("theme", "", "terminal colour theme ("+joinThemes()+")")
	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(NewConvertCmd())
	rootCmd.AddCommand(NewTemplatesCmd())
	rootCmd.AddCommand(NewHealthCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

// loadConfig reads the config file and applies environment and flag
// overrides on top.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if cfgFile != "" {
		loaded, err = config.LoadConfigFile(cfgFile)
	} else {
		loaded, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(loaded, v); err != nil {
		return nil, err
	}
	return loaded, nil
}

// configPath is where settings edited in the GUI are saved.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	dir, err := config.Dir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(dir, "config.yaml")
}

func configureLogging(cfg *config.Config, toFile bool) {
	opts := []log.Option{log.WithOutput(os.Stderr)}
	if cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	if toFile {
		path := cfg.LogFile()
		_ = os.MkdirAll(filepath.Dir(path), 0755)
		opts = append(opts, log.WithFile(path))
	}
	log.Configure(opts...)
	log.SetDebug(cfg.Logging.Debug)
}

// newState wires the workflow to the configured service and output folder.
func newState(cfg *config.Config, template string) workflow.State {
	svc := client.New(cfg.Service.URL, client.WithProbeTimeout(cfg.ProbeTimeout()))
	return workflow.New(workflow.Deps{
		Converter:  svc,
		Downloader: download.NewWithConfig(cfg),
		Probe:      svc,
	}, cfg.Intake.MaxSize, template)
}

func newDriver(cfg *config.Config, template string) *workflow.Driver {
	return workflow.NewDriver(newState(cfg, template))
}
