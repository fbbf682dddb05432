package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"moorbuild/internal/build"
	"moorbuild/internal/deployconfig"
	"moorbuild/internal/logging"
)

var buildFlags struct {
	jsonOut bool
	output  string
}

var buildCmd = &cobra.Command{
	Use:   "build [site] <deployment>",
	Short: "Resolve the inventory build for one deployment",
	Long: `Resolve the deployment build record and the full structural part
hierarchy for one site deployment.

Usage:
  moorbuild build CP10CNSM D00021       # site + deployment name
  moorbuild build CP10CNSM-00021        # full deployment number

Credentials are read from the netrc entry for the RDB host (see --netrc
and --token).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.BoolVar(&buildFlags.jsonOut, "json", false, "Emit the build as JSON instead of a table")
	f.StringVarP(&buildFlags.output, "output", "o", "", "Write output to a file instead of stdout")
}

// deploymentNumberFromArgs accepts either a full deployment number or a
// site code plus deployment name pair.
func deploymentNumberFromArgs(args []string) (string, error) {
	if len(args) == 2 {
		return deployconfig.DeploymentNumber(args[0], args[1])
	}
	number := strings.ToUpper(args[0])
	if !strings.Contains(number, "-") {
		return "", fmt.Errorf("%q is not a deployment number (expected SITE-NNNNN or a site and deployment name pair)", args[0])
	}
	return number, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	number, err := deploymentNumberFromArgs(args)
	if err != nil {
		return err
	}

	cfg, err := setup()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	b, err := build.Resolve(cmd.Context(), client, number,
		build.WithParallelism(cfg.Parallel),
		build.WithLogger(logging.New("build")),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if buildFlags.output != "" {
		f, err := os.Create(buildFlags.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", buildFlags.output, err)
		}
		defer f.Close()
		out = f
	}

	if buildFlags.jsonOut {
		return writeBuildJSON(out, b)
	}
	return writeBuildTable(out, b)
}

// sortedAssemblyParts returns the build's assembly parts ordered by part
// name, then URL for stability.
func sortedAssemblyParts(b *build.Build) []*build.AssemblyPart {
	parts := make([]*build.AssemblyPart, 0, len(b.AssemblyParts()))
	for _, ap := range b.AssemblyParts() {
		parts = append(parts, ap)
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Name() != parts[j].Name() {
			return parts[i].Name() < parts[j].Name()
		}
		return parts[i].URL() < parts[j].URL()
	})
	return parts
}

func writeBuildTable(w io.Writer, b *build.Build) error {
	record := b.Record()
	fmt.Fprintf(w, "Deployment %s  (%s)\n", b.DeploymentNumber(), deployconfig.Disposition(record))
	fmt.Fprintf(w, "Position: %.4f, %.4f  Depth: %.0f m\n", record.Latitude, record.Longitude, record.Depth)
	fmt.Fprintf(w, "Assembly parts: %d  Ancestor parts: %d\n\n", len(b.AssemblyParts()), len(b.Ancestors()))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tCOMPONENT\tCPU\tPARENT CPU\tLOG ID\tSUBASSEMBLY")
	for _, ap := range sortedAssemblyParts(b) {
		cpu := ""
		if ap.IsCPU() {
			cpu = "yes"
		}
		sub := ""
		if root, ok := ap.Subassembly(); ok {
			sub = root.Name()
			if group := root.SubassemblyComponentName(); group != "" {
				sub = fmt.Sprintf("%s (%s)", sub, group)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ap.Name(), ap.ComponentName(), cpu, ap.ParentCPU(), ap.DataSourceLogIdentifier(), sub)
	}
	return tw.Flush()
}

// assemblyPartReport is the JSON projection of one resolved assembly part.
type assemblyPartReport struct {
	URL                     string            `json:"assembly_part_url"`
	Name                    string            `json:"part_name"`
	ComponentName           string            `json:"component_name,omitempty"`
	ComponentBasename       string            `json:"component_basename,omitempty"`
	IsCPU                   bool              `json:"is_cpu"`
	ParentCPU               string            `json:"parent_cpu,omitempty"`
	InstanceOnSubassembly   string            `json:"instance_on_subassembly,omitempty"`
	DataSourceLogIdentifier string            `json:"data_source_log_identifier,omitempty"`
	Subassembly             string            `json:"subassembly,omitempty"`
	SubassemblyGroup        string            `json:"subassembly_group,omitempty"`
	Configuration           map[string]string `json:"configuration,omitempty"`
}

type buildReport struct {
	DeploymentNumber string               `json:"deployment_number"`
	Disposition      string               `json:"disposition"`
	Latitude         float64              `json:"latitude"`
	Longitude        float64              `json:"longitude"`
	Depth            float64              `json:"depth"`
	AssemblyParts    []assemblyPartReport `json:"assembly_parts"`
}

func writeBuildJSON(w io.Writer, b *build.Build) error {
	record := b.Record()
	report := buildReport{
		DeploymentNumber: b.DeploymentNumber(),
		Disposition:      deployconfig.Disposition(record),
		Latitude:         record.Latitude,
		Longitude:        record.Longitude,
		Depth:            record.Depth,
	}
	for _, ap := range sortedAssemblyParts(b) {
		entry := assemblyPartReport{
			URL:                     ap.URL(),
			Name:                    ap.Name(),
			ComponentName:           ap.ComponentName(),
			ComponentBasename:       ap.ComponentBasename(),
			IsCPU:                   ap.IsCPU(),
			ParentCPU:               ap.ParentCPU(),
			InstanceOnSubassembly:   ap.InstanceOnSubassembly(),
			DataSourceLogIdentifier: ap.DataSourceLogIdentifier(),
			Configuration:           ap.Config(),
		}
		if root, ok := ap.Subassembly(); ok {
			entry.Subassembly = root.Name()
			entry.SubassemblyGroup = root.SubassemblyComponentName()
		}
		report.AssemblyParts = append(report.AssemblyParts, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
