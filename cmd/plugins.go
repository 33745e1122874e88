package cmd

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/diagrammer/internal/config"
	"github.com/zjrosen/diagrammer/internal/plugin"
	"github.com/zjrosen/diagrammer/internal/ui/styles"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugins and whether they are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		on := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Render("✓")
		off := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("·")
		for _, s := range plugin.Describe(catalog(), cfg.Plugins.Enabled) {
			mark := off
			if s.Enabled {
				mark = on
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, s.Name)
		}
		return nil
	},
}

var pluginsEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a plugin in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPluginEnabled(cmd, args[0], true)
	},
}

var pluginsDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a plugin in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPluginEnabled(cmd, args[0], false)
	},
}

func init() {
	pluginsCmd.AddCommand(pluginsEnableCmd, pluginsDisableCmd)
	rootCmd.AddCommand(pluginsCmd)
}

func setPluginEnabled(cmd *cobra.Command, name string, enable bool) error {
	if cfgErr != nil {
		return cfgErr
	}
	if !catalog().Has(name) {
		return fmt.Errorf("%w: %s", plugin.ErrUnknownPlugin, name)
	}
	enabled := slices.DeleteFunc(slices.Clone(cfg.Plugins.Enabled), func(n string) bool { return n == name })
	if enable {
		enabled = append(enabled, name)
	}
	if err := config.SaveEnabledPlugins(cfgPath, enabled); err != nil {
		return fmt.Errorf("saving %s: %w", cfgPath, err)
	}
	cfg.Plugins.Enabled = enabled

	state := "disabled"
	if enable {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %s\n", name, state, cfgPath)
	return nil
}
