package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "image [hash]",
		Short: "Resolve the image URL of a page hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Assets.ResolveURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), map[string]string{"hash": args[0], "url": u}, func(w io.Writer) {
				fmt.Fprintln(w, u)
			})
		},
	})
}
