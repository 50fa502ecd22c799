package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwrap/cwrap/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .cwrap directory and configuration",
	Long: `Create the .cwrap directory in the current directory and write the default
configuration to .cwrap/config.yaml. The document cache is created there
on first use.`,
	Example: `  cwrap init          # Initialize in current directory
  cwrap init --force  # Rewrite the configuration with defaults`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfgPath := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)
	_, err = os.Stat(cfgPath)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, cfgPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	written, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}

	relPath, _ := filepath.Rel(cwd, written)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized cwrap configuration at %s\n", relPath)
	return nil
}
