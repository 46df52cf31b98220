// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/search"
	"github.com/taibuivan/libris/pkg/pointer"
)

func newSearchCommand(state *cli) *cobra.Command {
	var (
		query search.Query
		year  int
	)

	command := &cobra.Command{
		Use:   "search",
		Short: "Filter the catalog by author, title, genre, year and availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("year") {
				query.Year = &year
			}

			services, err := state.open(cmd.Context())
			if err != nil {
				return err
			}

			books, err := services.Search.Filter(cmd.Context(), query)
			if err != nil {
				return err
			}

			if state.asJSON {
				return state.printJSON(books)
			}
			return printBooks(state.out, books)
		},
	}

	flags := command.Flags()
	flags.StringVar(&query.Author, "author", "", "fuzzy author name fragment")
	flags.StringVar(&query.Title, "title", "", "fuzzy title fragment")
	flags.StringVar(&query.Genre, "genre", "", "genre fragment; the closest genres win")
	flags.IntVar(&year, "year", 0, "exact publication year")
	flags.BoolVar(&query.AvailableOnly, "available", false, "only books nobody holds")

	return command
}

func printBooks(out io.Writer, books []*book.Book) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(out, "no matching books")
		return err
	}

	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tTITLE\tGENRE\tYEAR\tAUTHOR\tHOLDER")
	for _, b := range books {
		genre, holder := pointer.Fallback(b.Genre, "-"), "-"
		if b.HolderID != nil {
			holder = fmt.Sprint(*b.HolderID)
		}
		fmt.Fprintf(table, "%d\t%s\t%s\t%d\t%d\t%s\n", b.ID, b.Title, genre, b.PublishedYear, b.AuthorID, holder)
	}
	return table.Flush()
}
