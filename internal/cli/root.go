package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/legalese/internal/logging"
	"github.com/ppiankov/legalese/internal/model"
)

// version is overridden at build time with -ldflags "-X ..."
var version = "0.1.0"

const envPrefix = "LEGALESE"

// optionalKeys are omitempty config keys that may still be set from the environment
var optionalKeys = []string{
	"llm.api_key",
	"llm.base_url",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
}

var (
	cfgFile   string
	verbose   bool
	configErr error // set by initConfig, reported by commands that need config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "legalese",
	Short: "Legalese - plain-English explanations of legal text",
	Long: `Legalese turns dense legal text into plain English.

For any clause or document it produces:
- A simplified rewrite with legal jargon replaced
- Up to five key points (obligations, restrictions, rights, penalties, timelines)
- A Low / Medium / High risk rating with the reasons behind it

The rule-based analysis runs locally. Optionally the text can be sent to a
language-model provider (OpenAI, Anthropic, Gemini or a local Ollama).

Legalese is a reading aid. It does not give legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Legalese.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "legalese v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.legalese/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	used, err := readConfig(viper.GetViper(), cfgFile)
	if err != nil {
		configErr = err
		return
	}
	if used != "" && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}

// defaultConfigPath returns ~/.legalese/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".legalese", "config.yaml"), nil
}

// readConfig layers defaults, the config file and LEGALESE_* environment
// variables into v. It returns the config file used, if any. A missing
// default config file is not an error; a missing explicit one is.
func readConfig(v *viper.Viper, path string) (string, error) {
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("encode defaults: %w", err)
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return "", fmt.Errorf("load defaults: %w", err)
	}

	// Read in environment variables that match LEGALESE_*
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys omitted from the defaults are only visible to Unmarshal when bound
	for _, key := range optionalKeys {
		_ = v.BindEnv(key)
	}

	explicit := path != ""
	if !explicit {
		path, err = defaultConfigPath()
		if err != nil {
			return "", nil
		}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}
	return path, nil
}

// decodeConfig builds the configuration from v on top of the defaults
func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// loadConfig returns the effective configuration and a logger built from it
func loadConfig() (*model.Config, *zap.Logger, error) {
	if configErr != nil {
		return nil, nil, configErr
	}

	cfg, err := decodeConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, logger, nil
}
