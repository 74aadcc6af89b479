package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	galleryCmd := &cobra.Command{
		Use:   "gallery [url]",
		Short: "Show the metadata of a gallery",
		Args:  cobra.ExactArgs(1),
		RunE:  runGallery,
	}

	pagesCmd := &cobra.Command{
		Use:   "pages [url]",
		Short: "List the pages of a gallery",
		Args:  cobra.ExactArgs(1),
		RunE:  runPages,
	}
	pagesCmd.Flags().BoolP("resolve", "r", false, "Resolve each page's image URL")

	importCmd := &cobra.Command{
		Use:   "import [url]",
		Short: "Map an external gallery link to its canonical URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	RootCmd.AddCommand(galleryCmd, pagesCmd, importCmd)
}

type tagJSON struct {
	Namespace string `json:"namespace"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
}

type galleryJSON struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Artists      []string   `json:"artists,omitempty"`
	Group        string     `json:"group,omitempty"`
	Genre        string     `json:"genre,omitempty"`
	Series       []string   `json:"series,omitempty"`
	Language     string     `json:"language,omitempty"`
	Characters   []string   `json:"characters,omitempty"`
	Tags         []tagJSON  `json:"tags,omitempty"`
	Uploaded     *time.Time `json:"uploaded,omitempty"`
}

func runGallery(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Galleries.Details(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := galleryJSON{
		URL:          m.CanonicalURL(),
		Title:        m.Title(),
		ThumbnailURL: m.ThumbnailURL(),
		Artists:      m.Artists(),
		Series:       m.Series(),
		Characters:   m.Characters(),
	}
	out.Group, _ = m.Group()
	out.Genre, _ = m.Genre()
	out.Language, _ = m.Language()
	if t, ok := m.Uploaded(); ok {
		out.Uploaded = &t
	}
	for _, t := range m.Tags() {
		out.Tags = append(out.Tags, tagJSON{Namespace: t.Namespace, Text: t.Text, Kind: t.Kind.String()})
	}

	return output(cmd.OutOrStdout(), out, func(w io.Writer) { printGalleryText(w, &out) })
}

func printGalleryText(w io.Writer, g *galleryJSON) {
	fmt.Fprintf(w, "%s\n%s\n", g.Title, g.URL)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-11s %s\n", name+":", value)
		}
	}
	field("artists", strings.Join(g.Artists, ", "))
	field("group", g.Group)
	field("type", g.Genre)
	field("series", strings.Join(g.Series, ", "))
	field("language", g.Language)
	field("characters", strings.Join(g.Characters, ", "))
	if g.Uploaded != nil {
		field("uploaded", g.Uploaded.Format(time.RFC3339))
	}
	tags := make([]string, len(g.Tags))
	for i, t := range g.Tags {
		tags[i] = t.Namespace + ":" + t.Text
	}
	field("tags", strings.Join(tags, ", "))
}

type pageJSON struct {
	Index    int    `json:"index"`
	Hash     string `json:"hash"`
	ImageURL string `json:"image_url,omitempty"`
}

func runPages(cmd *cobra.Command, args []string) error {
	resolve, _ := cmd.Flags().GetBool("resolve")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	pages, err := a.Galleries.Pages(cmd.Context(), args[0], resolve)
	if err != nil {
		return err
	}

	out := make([]pageJSON, len(pages))
	for i, p := range pages {
		out[i] = pageJSON(p)
	}
	return output(cmd.OutOrStdout(), out, func(w io.Writer) {
		for _, p := range pages {
			if p.ImageURL != "" {
				fmt.Fprintf(w, "%d\t%s\t%s\n", p.Index, p.Hash, p.ImageURL)
			} else {
				fmt.Fprintf(w, "%d\t%s\n", p.Index, p.Hash)
			}
		}
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.Galleries.Import(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), map[string]string{"url": u}, func(w io.Writer) {
		fmt.Fprintln(w, u)
	})
}
