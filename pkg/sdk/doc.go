// Package blogsearch embeds the blog search core in a Go program: fuzzy
// search over articles, authors and tags, filtering, sorting, pagination,
// highlighting and debounced search-as-you-type.
//
// Content comes from a JSON feed (URL or file) or is handed over directly:
//
//	eng, _ := blogsearch.New(blogsearch.WithFeedURL("https://blog.example/index.json"))
//	_, _ = eng.Load(ctx)
//	page, _ := eng.Search(ctx, "react hooks", blogsearch.Filters{Tags: []string{"react"}}, 1, 10)
//
// # Search as you type
//
//	live := eng.Live(ctx, func(q string, p blogsearch.Page) { render(p) }, clearResults)
//	defer live.Close()
//	live.Update(input, blogsearch.Filters{})
//
// Filters round-trip through URL query strings with EncodeQuery and ParseQuery.
package blogsearch
