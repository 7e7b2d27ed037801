package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/hatebu/internal/dates"
)

func newNormalizeCmd() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "normalize <date>",
		Short: "Print the canonical form of a date string",
		Example: `  hatebuctl normalize "May 31, 2022 at 08:00PM"
  hatebuctl normalize --timezone UTC "2022-05-31T20:00:00Z"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := dates.NewInZone(tz)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), envelope{
				"input":      args[0],
				"normalized": n.Normalize(args[0]),
				"valid":      n.IsValid(args[0]),
				"timezone":   n.Location().String(),
				"ok":         true,
			})
		},
	}
	cmd.Flags().StringVar(&tz, "timezone", dates.DefaultTimezone, "IANA zone dates are read and written in")

	return cmd
}
