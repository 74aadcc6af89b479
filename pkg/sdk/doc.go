// Package gallerysrc is a Go client for a gallery catalogue site. It lists
// popular and newest galleries, resolves boolean tag queries against the
// site's binary indexes, reads gallery metadata and page manifests, and
// resolves page image URLs by running the site's descrambling script in a
// sandbox.
//
//	client, _ := gallerysrc.New(ctx)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "female:maid -male:glasses", 1)
//	for _, s := range res.Items {
//	    fmt.Println(s.ID, s.Title)
//	}
//
//	g, _ := client.Details(ctx, res.Items[0].DetailURL)
//	pages, _ := client.Pages(ctx, g.URL, true)
//
// Term lookups can be cached in Valkey or Redis:
//
//	client, _ := gallerysrc.New(ctx,
//	    gallerysrc.WithValkeyCache("localhost:6379", ""),
//	    gallerysrc.WithPrometheus(prometheus.DefaultRegisterer),
//	)
package gallerysrc
