// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/libris/internal/core/author"
	"github.com/taibuivan/libris/internal/core/book"
	"github.com/taibuivan/libris/internal/core/user"
)

// fixture is the YAML document accepted by `librisctl seed`.
type fixture struct {
	Authors []fixtureAuthor `yaml:"authors"`
	Users   []fixtureUser   `yaml:"users"`
}

type fixtureAuthor struct {
	Name      string        `yaml:"name"`
	Biography *string       `yaml:"biography"`
	Books     []fixtureBook `yaml:"books"`
}

type fixtureBook struct {
	Title         string  `yaml:"title"`
	Genre         *string `yaml:"genre"`
	PublishedYear *int    `yaml:"published_year"`
}

type fixtureUser struct {
	Name  string  `yaml:"name"`
	Email *string `yaml:"email"`
}

// seedSummary reports what one seed run created.
type seedSummary struct {
	Authors int `json:"authors"`
	Books   int `json:"books"`
	Users   int `json:"users"`
}

func readFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var doc fixture
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &doc, nil
}

func (a fixtureAuthor) input() author.CreateInput {
	input := author.CreateInput{Name: a.Name, Biography: a.Biography}
	for _, b := range a.Books {
		input.Books = append(input.Books, book.CreateInput{
			Title:         b.Title,
			Genre:         b.Genre,
			PublishedYear: b.PublishedYear,
		})
	}
	return input
}

func newSeedCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load authors, their books and patrons from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readFixture(args[0])
			if err != nil {
				return err
			}

			services, err := state.open(cmd.Context())
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(doc.Authors)+len(doc.Users),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("seeding"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var summary seedSummary
			for i, entry := range doc.Authors {
				created, err := services.Authors.CreateAuthor(cmd.Context(), entry.input())
				if err != nil {
					return fmt.Errorf("authors[%d] %q: %w", i, entry.Name, err)
				}
				summary.Authors++
				summary.Books += len(created.Books)
				_ = bar.Add(1)
			}

			for i, entry := range doc.Users {
				if _, err := services.Users.CreateUser(cmd.Context(), user.Input{Name: entry.Name, Email: entry.Email}); err != nil {
					return fmt.Errorf("users[%d] %q: %w", i, entry.Name, err)
				}
				summary.Users++
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			if state.asJSON {
				return state.printJSON(summary)
			}
			_, err = fmt.Fprintf(state.out, "seeded %d authors, %d books, %d users\n", summary.Authors, summary.Books, summary.Users)
			return err
		},
	}
}
