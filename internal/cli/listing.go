package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

func init() {
	popular := &cobra.Command{
		Use:   "popular",
		Short: "Show a page of the popularity listing",
		Args:  cobra.NoArgs,
		RunE:  runListing(func(ctx context.Context, l lister, page int) (domain.Listing, error) { return l.Popular(ctx, page) }),
	}
	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show a page of the newest galleries",
		Args:  cobra.NoArgs,
		RunE:  runListing(func(ctx context.Context, l lister, page int) (domain.Listing, error) { return l.Latest(ctx, page) }),
	}
	for _, cmd := range []*cobra.Command{popular, latest} {
		cmd.Flags().IntP("page", "p", 1, "Page number, starting at 1")
		RootCmd.AddCommand(cmd)
	}
}

type lister interface {
	Popular(ctx context.Context, page int) (domain.Listing, error)
	Latest(ctx context.Context, page int) (domain.Listing, error)
}

func runListing(fetch func(context.Context, lister, int) (domain.Listing, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := fetch(cmd.Context(), a.Listings, page)
		if err != nil {
			return err
		}
		return printListing(cmd.OutOrStdout(), l)
	}
}

type listingJSON struct {
	Page        int           `json:"page"`
	Items       []summaryJSON `json:"items"`
	HasNextPage bool          `json:"has_next_page"`
}

type summaryJSON struct {
	ID           int32  `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	DetailURL    string `json:"detail_url"`
}

func printListing(w io.Writer, l domain.Listing) error {
	out := listingJSON{Page: l.Page, Items: make([]summaryJSON, len(l.Items)), HasNextPage: l.HasNextPage}
	for i, s := range l.Items {
		out.Items[i] = summaryJSON{ID: int32(s.ID), Title: s.Title, ThumbnailURL: s.ThumbnailURL, DetailURL: s.DetailURL}
	}
	return output(w, out, func(w io.Writer) {
		for _, s := range l.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Title, s.DetailURL)
		}
		if l.HasNextPage {
			fmt.Fprintf(w, "-- more on page %d\n", l.Page+1)
		}
	})
}
