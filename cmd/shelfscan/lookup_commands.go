package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shelfscan/internal/barcode"
	"shelfscan/internal/collection"
	"shelfscan/internal/movie"
)

// addOptions carries the --add family of flags shared by lookup commands.
type addOptions struct {
	add       bool
	location  string
	condition string
}

func (o *addOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.add, "add", false, "Add the resolved movie to the collection")
	cmd.Flags().StringVar(&o.location, "location", "", "Shelf or box location (with --add)")
	cmd.Flags().StringVar(&o.condition, "condition", "", "Disc condition (with --add; default from config)")
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var resolve bool
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "scan <image|->",
		Short: "Decode barcodes from an image file",
		Long:  "Decode every barcode in an image. Pass - to read the image from stdin. With --lookup the first barcode that resolves is shown as a movie.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readImageArg(cmd, args[0])
			if err != nil {
				return err
			}
			readings := barcode.Decode(payload)
			if len(readings) == 0 {
				return errors.New("no barcode found in image")
			}
			if !resolve {
				if asJSON {
					return writeJSON(cmd, readings)
				}
				rows := make([][]string, 0, len(readings))
				for _, r := range readings {
					rows = append(rows, []string{r.Data, r.Symbology})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{{Header: "Data"}, {Header: "Type"}}, rows, ""))
				return nil
			}

			lookup, err := ctx.pipeline()
			if err != nil {
				return err
			}
			for _, r := range readings {
				if record := lookup.ResolveBarcode(cmd.Context(), r.Data); record != nil {
					return presentRecord(cmd, ctx, record, opts, asJSON)
				}
			}
			return fmt.Errorf("movie not found for barcode %s", readings[0].Data)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&resolve, "lookup", false, "Resolve decoded barcodes to movie metadata")
	opts.register(cmd)
	return cmd
}

func readImageArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "Resolve a barcode to movie metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.TrimSpace(args[0])
			if code == "" {
				return errors.New("barcode is required")
			}
			lookup, err := ctx.pipeline()
			if err != nil {
				return err
			}
			record := lookup.ResolveBarcode(cmd.Context(), code)
			if record == nil {
				if asJSON {
					if err := writeJSON(cmd, map[string]any{
						"success": false,
						"error":   "Movie not found for this barcode",
						"barcode": code,
					}); err != nil {
						return err
					}
				}
				return fmt.Errorf("movie not found for barcode %s", code)
			}
			return presentRecord(cmd, ctx, record, opts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	opts.register(cmd)
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Resolve a movie title via TMDB",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title is required")
			}
			lookup, err := ctx.pipeline()
			if err != nil {
				return err
			}
			if !lookup.MetadataConfigured() {
				return errors.New("tmdb api key not configured (set tmdb.api_key or TMDB_API_KEY)")
			}
			record := lookup.ResolveTitle(cmd.Context(), title)
			if record == nil {
				return fmt.Errorf("movie not found: %s", title)
			}
			return presentRecord(cmd, ctx, record, opts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	opts.register(cmd)
	return cmd
}

// presentRecord prints a resolved record, adding it to the collection first
// when requested.
func presentRecord(cmd *cobra.Command, ctx *commandContext, record *movie.Record, opts addOptions, asJSON bool) error {
	if !opts.add {
		if asJSON {
			return writeJSON(cmd, map[string]any{"success": true, "movie": record.Map()})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRecord(*record))
		return nil
	}

	return ctx.withStore(func(store *collection.Store) error {
		item, err := store.Add(cmd.Context(), collection.NewItem{
			Record:    *record,
			Location:  opts.location,
			Condition: opts.condition,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd, map[string]any{"success": true, "movie": item.Map()})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderItem(item))
		fmt.Fprintf(out, "Added %s to the collection as #%d\n", item.DisplayTitle(), item.ID)
		return nil
	})
}
