package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/techish-thoughts/blogsearch/internal/config"
	blogsearch "github.com/techish-thoughts/blogsearch/pkg/sdk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	hitTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	markStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("220"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// QueryCommand runs one search against the feed and prints the results.
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Search the content feed once and print the results",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "feed",
				Usage: "Feed file path or http(s) URL (default: feed from config)",
			},
			&cli.StringFlag{
				Name:  "filters",
				Usage: "Filters as a URL query string, e.g. tags=react&sort=date&order=asc",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page (1-indexed)",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			feedOpt, err := feedOption(c.String("env"), c.String("feed"))
			if err != nil {
				return err
			}
			_, filters := blogsearch.ParseQuery(c.String("filters"))
			query := strings.Join(c.Args().Slice(), " ")
			return runQuery(ctx, os.Stdout, feedOpt, query, filters, c.Int("page"), c.Int("limit"))
		},
	}
}

// feedOption picks the feed from the flag, falling back to the config file.
func feedOption(env, flag string) (blogsearch.Option, error) {
	if flag == "" {
		cfg, err := config.Load(env)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if cfg.Feed.URL != "" {
			flag = cfg.Feed.URL
		} else {
			flag = cfg.Feed.Path
		}
	}
	if strings.HasPrefix(flag, "http://") || strings.HasPrefix(flag, "https://") {
		return blogsearch.WithFeedURL(flag), nil
	}
	return blogsearch.WithFeedFile(flag), nil
}

func runQuery(
	ctx context.Context, w io.Writer, feedOpt blogsearch.Option,
	query string, filters blogsearch.Filters, page, limit int,
) error {
	eng, err := blogsearch.New(feedOpt)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if _, err := eng.Load(ctx); err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	res, err := eng.Search(ctx, query, filters, page, limit)
	if err != nil {
		return err //nolint:wrapcheck // engine errors carry context
	}
	render(w, query, filters, res)
	return nil
}

func render(w io.Writer, query string, filters blogsearch.Filters, p blogsearch.Page) {
	heading := fmt.Sprintf("%d results", p.Total)
	if query != "" {
		heading += fmt.Sprintf(" for %q", query)
	}
	if filters.Sort != "" {
		heading += " · sorted by " + cases.Title(language.English).String(string(filters.Sort))
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render(heading))

	if len(p.Hits) == 0 {
		_, _ = fmt.Fprintln(w, noDataStyle.Render("No matching articles"))
		return
	}

	for i := range p.Hits {
		h := &p.Hits[i]
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, hitTitleStyle.Render(h.Title))

		meta := []string{h.Published.Format("2006-01-02")}
		if h.Author != "" {
			meta = append([]string{h.Author}, meta...)
		}
		if len(h.Tags) > 0 {
			meta = append(meta, "#"+strings.Join(h.Tags, " #"))
		}
		_, _ = fmt.Fprintln(w, "   "+metaStyle.Render(strings.Join(meta, " · ")))

		if h.Highlight != "" {
			_, _ = fmt.Fprintln(w, "   "+renderHighlight(h.Highlight))
		}
		_, _ = fmt.Fprintln(w, "   "+urlStyle.Render(h.Permalink))
	}
	_, _ = fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("page %d of %d", p.Page, p.TotalPages)))
}

// renderHighlight swaps <mark> spans for terminal styling.
func renderHighlight(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "<mark>")
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], "</mark>")
		if end < 0 {
			break
		}
		b.WriteString(s[:start])
		b.WriteString(markStyle.Render(s[start+len("<mark>") : start+end]))
		s = s[start+end+len("</mark>"):]
	}
	b.WriteString(s)
	return b.String()
}
