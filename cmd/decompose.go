// -- cmd/decompose.go --
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/softphys/api/schemas"
	"github.com/xkilldash9x/softphys/internal/orientation"
)

func newDecomposeCmd() *cobra.Command {
	var pitch, roll float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decomposes a pitch/roll orientation and prints the directional effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := orientation.Decompose(orientation.FromAngles(pitch, roll))
			effects := orientation.Effects(s)
			bucket := orientation.Bucket(s)

			if asJSON {
				named := make(map[string]float64, schemas.DirectionCount)
				for _, d := range schemas.Directions() {
					named[d.String()] = effects.Get(d)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					orientation.Sample
					Bucket  string             `json:"bucket"`
					Effects map[string]float64 `json:"effects"`
				}{s, bucket.String(), named})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "pitch\t%.4f\n", s.Pitch)
			fmt.Fprintf(tw, "roll\t%.4f\n", s.Roll)
			fmt.Fprintf(tw, "sideways factor\t%.4f\n", s.SidewaysFactor)
			fmt.Fprintf(tw, "bucket\t%s\n", bucket)
			for _, d := range schemas.Directions() {
				fmt.Fprintf(tw, "  %s\t%.4f\n", d, effects.Get(d))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "pitch in degrees (positive leans forward)")
	cmd.Flags().Float64Var(&roll, "roll", 0, "roll in degrees (positive rolls left)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
