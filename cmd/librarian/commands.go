package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/catalog"
	"github.com/listenupapp/librarian/internal/di/providers"
	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/export"
	"github.com/listenupapp/librarian/internal/search"
	"github.com/listenupapp/librarian/internal/service"
	"github.com/listenupapp/librarian/internal/store"
)

var commands = map[string]command{
	"list":   {"List books, optionally filtered and sorted", runList},
	"search": {"List books whose fields contain a keyword", runSearch},
	"find":   {"Rank books against a full-text query", runFind},
	"show":   {"Show one book with its cover", runShow},
	"add":    {"Add a book", runAdd},
	"tag":    {"Add or remove a tag on selected books", runTag},
	"delete": {"Delete selected books", runDelete},
	"export": {"Export books to csv, json, yaml, sqlite or zip", runExport},
	"tags":   {"List every tag in use", runTags},
	"theme":  {"Show or set the appearance mode", runTheme},
	"sorts":  {"List the sort orders", runSorts},
	"schema": {"Print the JSON schema of the catalog file", runSchema},
	"watch":  {"Report external changes to the catalog files", runWatch},
}

func runList(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("list")
	sortFlag := fs.String("sort", "", "Sort order, e.g. year-desc or \"Year (New→Old)\"")
	tag := fs.String("tag", catalog.AllTags, "Only books carrying this tag")
	keyword := fs.String("search", "", "Only books containing this keyword")
	if err := parse(fs, args); err != nil {
		return err
	}

	opts := service.ListOptions{Keyword: *keyword, Tag: *tag}
	if *sortFlag != "" {
		order, err := catalog.ParseSortOrder(*sortFlag)
		if err != nil {
			return err
		}
		opts.Sort = order
	}

	return a.printBooks(a.lib.List(opts))
}

func runSearch(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("search")
	if err := parse(fs, args); err != nil {
		return err
	}
	return a.printBooks(a.lib.List(service.ListOptions{Keyword: strings.Join(fs.Args(), " ")}))
}

func runFind(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("find")
	var tags listFlag
	fs.Var(&tags, "tag", "Require this tag (repeatable)")
	minYear := fs.Int("min-year", 0, "Earliest publication year")
	maxYear := fs.Int("max-year", 0, "Latest publication year")
	limit := fs.Int("limit", search.DefaultLimit, "Maximum number of results")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := a.lib.FullTextSearch(ctx, search.Params{
		Query:   strings.Join(fs.Args(), " "),
		Tags:    tags,
		MinYear: *minYear,
		MaxYear: *maxYear,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tTITLE\tAUTHOR\tYEAR\tGENRE\tTAGS")
	for _, hit := range res.Hits {
		b := hit.Book
		fmt.Fprintf(tw, "%.3f\t%s\t%s\t%s\t%s\t%s\n",
			hit.Score, b.Title, b.Author, b.Year, b.Genre, strings.Join(b.Tags, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d matches\n", len(res.Hits), res.Total)
	return nil
}

func runShow(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("show")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef(`show takes one "title|author|year[|genre]" argument`)
	}
	key, err := domain.ParseKey(fs.Arg(0))
	if err != nil {
		return &usageError{err: err}
	}

	b, err := a.lib.Find(key)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if b.ID != "" {
		fmt.Fprintf(tw, "ID:\t%s\n", b.ID)
	}
	fmt.Fprintf(tw, "Title:\t%s\n", b.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", b.Author)
	fmt.Fprintf(tw, "Year:\t%s\n", b.Year)
	fmt.Fprintf(tw, "Genre:\t%s\n", b.Genre)
	fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(b.Tags, ", "))
	fmt.Fprintf(tw, "Cover:\t%s\n", a.renderer.Render(b))
	return tw.Flush()
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("add")
	var in domain.NewBookInput
	fs.StringVar(&in.Title, "title", "", "Title (required)")
	fs.StringVar(&in.Author, "author", "", "Author (required)")
	fs.StringVar(&in.Year, "year", "", "Publication year (required)")
	fs.StringVar(&in.Genre, "genre", "", "Genre")
	tags := fs.String("tags", "", "Comma-separated tags")
	fs.StringVar(&in.CoverSource, "cover", "", "Image file to copy as the cover")
	if err := parse(fs, args); err != nil {
		return err
	}
	in.Tags = domain.ParseTags(*tags)

	b, err := a.lib.AddBook(ctx, in)
	if err != nil {
		return err
	}
	if in.CoverSource != "" && b.Cover == nil {
		fmt.Fprintf(a.errOut, "warning: could not copy cover %s, book added without one\n", in.CoverSource)
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", b.Title, b.ID)
	return nil
}

func runTag(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || (args[0] != "add" && args[0] != "remove") {
		return usagef("tag needs a mode: add or remove")
	}
	mode := args[0]

	fs := a.flagSet("tag " + mode)
	tag := fs.String("tag", "", "Tag to "+mode)
	var sf selectionFlags
	sf.register(fs)
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	sel, err := sf.selection()
	if err != nil {
		return err
	}
	keys, err := a.lib.Resolve(sel)
	if err != nil {
		return err
	}

	apply, verb := a.lib.AddTag, "Tagged"
	if mode == "remove" {
		apply, verb = a.lib.RemoveTag, "Untagged"
	}
	changed, err := apply(ctx, keys, *tag)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %d book(s)\n", verb, changed)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("delete")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	var sf selectionFlags
	sf.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	sel, err := sf.selection()
	if err != nil {
		return err
	}
	keys, err := a.lib.Resolve(sel)
	if err != nil {
		return err
	}

	if !*yes && !a.confirm(fmt.Sprintf("Delete %d selected book(s)?", keys.Len())) {
		fmt.Fprintln(a.out, "Nothing deleted")
		return nil
	}

	removed, err := a.lib.Delete(ctx, keys)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d book(s)\n", removed)
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("export")
	out := fs.String("out", "", "Destination file (required)")
	formatFlag := fs.String("format", "", "csv, json, yaml, sqlite or zip (default: from the file extension)")
	var sf selectionFlags
	sf.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *out == "" {
		return usagef("-out is required")
	}

	var format export.Format
	if *formatFlag != "" {
		f, err := export.ParseFormat(*formatFlag)
		if err != nil {
			return err
		}
		format = f
	}

	var keys domain.KeySet
	if sel, err := sf.selection(); err != nil {
		return err
	} else if !sel.IsEmpty() {
		if keys, err = a.lib.Resolve(sel); err != nil {
			return err
		}
	}

	res, err := a.lib.Export(ctx, *out, format, keys)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d book(s) to %s (%s, %d bytes, sha256 %s)\n",
		res.Books, res.Path, res.Format, res.Size, res.Checksum)
	return nil
}

func runTags(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("tags")
	if err := parse(fs, args); err != nil {
		return err
	}
	for _, t := range a.lib.Tags() {
		fmt.Fprintln(a.out, t)
	}
	return nil
}

func runTheme(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("theme")
	if err := parse(fs, args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 0:
		fmt.Fprintln(a.out, a.lib.Settings().AppearanceMode())
		return nil
	case 1:
		mode, err := a.lib.SetAppearanceMode(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Appearance mode set to %s\n", mode)
		return nil
	default:
		return usagef("theme takes at most one argument")
	}
}

func runSorts(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("sorts")
	if err := parse(fs, args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, o := range catalog.SortOrders() {
		fmt.Fprintf(tw, "%s\t%s\n", o.Slug(), o)
	}
	return tw.Flush()
}

func runSchema(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("schema")
	if err := parse(fs, args); err != nil {
		return err
	}
	schema, err := store.CatalogSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(schema))
	return err
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("watch")
	if err := parse(fs, args); err != nil {
		return err
	}

	handle, err := do.Invoke[*providers.FileWatcherHandle](a.injector)
	if err != nil {
		return err
	}

	go func() {
		if err := handle.Start(ctx); err != nil {
			a.log.WithError(err).Error("watcher stopped")
		}
	}()
	a.log.Info("watching catalog files")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-handle.Events():
			fmt.Fprintf(a.out, "%s %s %s\n", time.Now().Format(time.TimeOnly), ev.Type, ev.Path)
		case err := <-handle.Errors():
			a.log.WithError(err).Warn("watch error")
		}
	}
}

// printBooks writes books as an aligned table.
func (a *app) printBooks(books []*domain.Book) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tAUTHOR\tYEAR\tGENRE\tTAGS")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.Title, b.Author, b.Year, b.Genre, strings.Join(b.Tags, ", "))
	}
	return tw.Flush()
}
