package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search galleries by tag",
		Long: `Search galleries with a boolean tag query. Terms are intersected; a
leading "-" excludes a term. Namespaced terms look like female:maid or
language:japanese. A pasted gallery URL returns that gallery.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().IntP("page", "p", 1, "Page number, starting at 1")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	query := strings.Join(args, " ")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.Search.Search(cmd.Context(), query, page)
	if err != nil {
		return err
	}
	return printListing(cmd.OutOrStdout(), l)
}
