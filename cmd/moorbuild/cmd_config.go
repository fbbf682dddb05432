package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"moorbuild/internal/deployconfig"
)

var configFlags struct {
	template string
	output   string
}

var configCmd = &cobra.Command{
	Use:   "config <site> <deployment>",
	Short: "Generate a deployment configuration document from a template",
	Long: `Pull deployment metadata (dates, position, cruises, disposition) from the
RDB and render a deployment configuration template into a YAML document.

Usage:
  moorbuild config cp10cnsm D00021 -t templates/cp10cnsm.yaml.tmpl -o D00021.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runConfig,
}

func init() {
	f := configCmd.Flags()
	f.StringVarP(&configFlags.template, "template", "t", "", "Template file to render (required)")
	f.StringVarP(&configFlags.output, "output", "o", "", "Output YAML file (default: stdout)")
	configCmd.MarkFlagRequired("template")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	info, err := deployconfig.Gather(cmd.Context(), client, args[0], args[1])
	if err != nil {
		return err
	}

	doc, err := deployconfig.Render(configFlags.template, info)
	if err != nil {
		return err
	}

	if configFlags.output == "" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	}

	if err := deployconfig.WriteFile(configFlags.output, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to: %s\n", configFlags.output)
	return nil
}
