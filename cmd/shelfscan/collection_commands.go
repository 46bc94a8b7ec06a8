package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfscan/internal/collection"
	"shelfscan/internal/config"
	"shelfscan/internal/movie"
)

func newCollectionCommand(ctx *commandContext) *cobra.Command {
	collectionCmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Inspect and edit the movie collection",
	}

	collectionCmd.AddCommand(newCollectionListCommand(ctx))
	collectionCmd.AddCommand(newCollectionShowCommand(ctx))
	collectionCmd.AddCommand(newCollectionAddCommand(ctx))
	collectionCmd.AddCommand(newCollectionRemoveCommand(ctx))
	collectionCmd.AddCommand(newCollectionExportCommand(ctx))

	return collectionCmd
}

func newCollectionListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List movies, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *collection.Store) error {
				items, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, itemMaps(items))
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Collection is empty")
					return nil
				}
				fmt.Fprintln(out, renderItemList(items))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCollectionShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *collection.Store) error {
				item, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, item.Map())
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderItem(item))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCollectionAddCommand(ctx *commandContext) *cobra.Command {
	var (
		in     collection.NewItem
		format string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie by hand",
		Long:  fmt.Sprintf("Add a movie without a lookup. Conditions: %s.", conditionList()),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Format = movie.Format(format)
			return ctx.withStore(func(store *collection.Store) error {
				item, err := store.Add(cmd.Context(), in)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"success": true, "movie": item.Map()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the collection as #%d\n", item.DisplayTitle(), item.ID)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Title, "title", "", "Movie title")
	flags.IntVar(&in.Year, "year", 0, "Release year")
	flags.StringVar(&in.Director, "director", "", "Director")
	flags.StringVar(&in.Genre, "genre", "", "Comma separated genres")
	flags.StringVar(&format, "format", "", "Disc format (DVD, Blu-ray, 4K Blu-ray)")
	flags.StringVar(&in.Barcode, "barcode", "", "Product barcode")
	flags.StringVar(&in.TMDBID, "tmdb-id", "", "TMDB movie id")
	flags.StringVar(&in.PosterURL, "poster-url", "", "Poster image URL")
	flags.StringVar(&in.Location, "location", "", "Shelf or box location")
	flags.StringVar(&in.Condition, "condition", "", "Disc condition (default from config)")
	flags.BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCollectionRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Remove movies by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseMovieID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(store *collection.Store) error {
				out := cmd.OutOrStdout()
				for _, id := range ids {
					if err := store.Delete(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed #%d\n", id)
				}
				return nil
			})
		},
	}
}

func newCollectionExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *collection.Store) error {
				rows, err := store.Export(cmd.Context())
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outputPath)
				if target == "" || target == "-" {
					return writeJSON(cmd, rows)
				}
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("encode export: %w", err)
				}
				if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				if err := os.WriteFile(expanded, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d movies to %s\n", len(rows), expanded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func parseMovieID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(value), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", value)
	}
	return id, nil
}

func itemMaps(items []*collection.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Map())
	}
	return out
}

func conditionList() string {
	names := make([]string, 0, len(collection.Conditions))
	for _, c := range collection.Conditions {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
