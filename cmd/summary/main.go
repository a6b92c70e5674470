package summary

import (
	"fmt"

	"github.com/bmeg/inventory/manifest"
	"github.com/bmeg/inventory/util"
	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var outYaml = false

// Cmd is the declaration of the command line
var Cmd = &cobra.Command{
	Use:   "summary <manifest>",
	Short: "Report file counts and sizes per extension for a manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := manifest.Read(args[0])
		if err != nil {
			return err
		}
		algorithm := ""
		if len(records) > 0 {
			algorithm = util.AlgorithmForDigest(records[0].Checksum)
		}
		s := manifest.Summarize(records, algorithm)

		if outYaml {
			out, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s", out)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Extension", "Files", "Size"})
		for _, e := range s.Extensions {
			ext := e.Extension
			if ext == "" {
				ext = "(none)"
			}
			t.AppendRow(table.Row{ext, e.FileCount, units.HumanSize(float64(e.TotalSize))})
		}
		t.AppendFooter(table.Row{"Total", s.FileCount, units.HumanSize(float64(s.TotalSize))})
		t.Render()
		return nil
	},
}

func init() {
	flags := Cmd.Flags()
	flags.BoolVarP(&outYaml, "yaml", "y", outYaml, "Output YAML")
}
