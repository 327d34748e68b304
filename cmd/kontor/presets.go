package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kontor/internal/core"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage new-transaction presets",
	}

	var force bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.backend.Preferences.GetNewTransactionPresets(cmd.Context(), force); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), a.backend.Preferences.NewTransactionPresets())
		},
	}
	list.Flags().BoolVar(&force, "force", false, "Refetch even if cached")

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace all presets with the list in a YAML or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := readPresets(file)
			if err != nil {
				return err
			}
			if err := a.backend.Preferences.SetNewTransactionPresets(cmd.Context(), presets); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d presets\n", len(presets))
			return nil
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "Preset file")
	_ = set.MarkFlagRequired("file")

	cmd.AddCommand(list, set)
	return cmd
}

// readPresets decodes a preset list. JSON is valid YAML, so one decoder
// covers both.
func readPresets(path string) ([]core.NewTransactionPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	var presets []core.NewTransactionPreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	if presets == nil {
		presets = []core.NewTransactionPreset{}
	}
	return presets, nil
}
