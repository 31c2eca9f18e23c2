package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/cli/styles"
	"github.com/bnema/panehost/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Locate, initialize and validate config.toml, and write its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Show where config.toml is read from",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default config.toml",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigInit,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the JSON schema next to config.toml",
	Long: `Write config.schema.json for editor completion. Point taplo or
Even Better TOML at it with a "#:schema" directive.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigSchema,
}

var configValidateCmd = &cobra.Command{
	Use:         "validate",
	Short:       "Check config.toml and the environment overrides",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd, configSchemaCmd, configValidateCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	configFile, err := config.GetConfigFile()
	if err != nil {
		return err
	}
	fmt.Println(renderer.RenderPath("config", configFile))

	if logDir, err := config.GetLogDir(); err == nil {
		fmt.Println(renderer.RenderPath("logs  ", logDir))
	}
	if journal, err := config.GetJournalFile(); err == nil {
		fmt.Println(renderer.RenderPath("journal", journal))
	}
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	path, err := config.InitDefaultFile(configForce)
	if err != nil {
		if path != "" {
			fmt.Println(renderer.RenderExists(path))
			return errSilent
		}
		return err
	}
	fmt.Println(renderer.RenderWritten("default config", path))
	return nil
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	if err := config.EnsureDirectories(); err != nil {
		return err
	}
	path, err := config.GenerateSchemaFile()
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return errSilent
	}
	fmt.Println(renderer.RenderWritten("schema", path))
	return nil
}

func runConfigValidate(_ *cobra.Command, _ []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	configFile, err := config.GetConfigFile()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Println(renderer.RenderPath("no config file, defaults apply:", configFile))
	}

	mgr, err := config.NewManager()
	if err != nil {
		return err
	}
	err = mgr.Load()
	if err == nil {
		err = config.Validate(mgr.Get())
	}
	fmt.Println(renderer.RenderValidation(configFile, err))
	if err != nil {
		return errSilent
	}
	return nil
}
