// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/core/circulation"
	"github.com/taibuivan/libris/pkg/query"
)

// errRejected makes the process exit non-zero when the desk refuses a request.
var errRejected = errors.New("request rejected")

type deskFlags struct {
	userID int64
	books  string
}

func (flags *deskFlags) register(command *cobra.Command) {
	command.Flags().Int64Var(&flags.userID, "user", 0, "patron id")
	command.Flags().StringVar(&flags.books, "books", "", "comma-separated book ids, e.g. \"1, 2,3\"")
	_ = command.MarkFlagRequired("user")
	_ = command.MarkFlagRequired("books")
}

func (flags *deskFlags) bookIDs() ([]int64, error) {
	ids, err := query.Int64Slice(flags.books)
	if err != nil {
		return nil, fmt.Errorf("--books: %w", err)
	}
	return ids, nil
}

func newBorrowCommand(state *cli) *cobra.Command {
	var flags deskFlags

	command := &cobra.Command{
		Use:   "borrow",
		Short: "Lend books to a patron; all of them or none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookIDs, err := flags.bookIDs()
			if err != nil {
				return err
			}

			services, err := state.open(cmd.Context())
			if err != nil {
				return err
			}

			outcome, err := services.Circulation.Borrow(cmd.Context(), flags.userID, bookIDs)
			if err != nil {
				return err
			}
			return state.report(outcome, outcome)
		},
	}
	flags.register(command)
	return command
}

func newReturnCommand(state *cli) *cobra.Command {
	var flags deskFlags

	command := &cobra.Command{
		Use:   "return",
		Short: "Take back the listed books a patron holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookIDs, err := flags.bookIDs()
			if err != nil {
				return err
			}

			services, err := state.open(cmd.Context())
			if err != nil {
				return err
			}

			outcome, err := services.Circulation.Return(cmd.Context(), flags.userID, bookIDs)
			if err != nil {
				return err
			}
			err = state.report(outcome, outcome.Outcome)
			if len(outcome.Invalid) > 0 && !state.asJSON {
				fmt.Fprintf(state.out, "not returned: %v\n", outcome.Invalid)
			}
			return err
		},
	}
	flags.register(command)
	return command
}

// report prints the outcome and turns a business failure into errRejected.
func (state *cli) report(value any, outcome circulation.Outcome) error {
	if state.asJSON {
		if err := state.printJSON(value); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(state.out, "%s: %s\n", outcome.Code, outcome.Message)
	}

	if !outcome.Success {
		return errRejected
	}
	return nil
}
