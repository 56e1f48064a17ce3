package cli

import (
	"os"

	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the flags shared by every kit command.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command with the standard kit flags and
// styled help.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to kit.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the CLI logger, switched to debug level by --verbose.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("kit.cli")
	if opts := GetOptions(cmd); opts.Verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	return entry
}

// GetOptions extracts the standard flags from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// InitConfig resolves the config file to use: the explicit path when given,
// otherwise the nearest kit.yml. An empty path with a nil error means no
// config file exists.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	found, err := config.FindConfigFile(cwd)
	if err != nil {
		return "", nil
	}
	return found, nil
}

// LoadConfig loads the file named by --config with its overrides, or the
// layered configuration around the working directory. Without any config
// file it returns the defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path := GetOptions(cmd).ConfigFile; path != "" {
		return config.LoadWithOverrides(path)
	}

	cfg, err := config.LoadDefault()
	if errors.Is(err, errors.ErrCodeConfigNotFound) {
		cfg = &config.Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	return cfg, err
}
