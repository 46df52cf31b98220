// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/sec"
)

func newTokenCommand(state *cli) *cobra.Command {
	var (
		subject    string
		role       string
		timeToLive time.Duration
	)

	command := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff bearer token for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.settings.PrivateKeyPath == "" || state.settings.PublicKeyPath == "" {
				return errors.New("token: set LIBRIS_JWT_PRIVATE_KEY_PATH and LIBRIS_JWT_PUBLIC_KEY_PATH")
			}

			tokens, err := sec.NewTokenService(state.settings.PrivateKeyPath, state.settings.PublicKeyPath, state.settings.Issuer)
			if err != nil {
				return err
			}

			signed, err := tokens.GenerateAccessToken(subject, sec.UserRole(role), timeToLive)
			if err != nil {
				return err
			}

			if state.asJSON {
				return state.printJSON(map[string]any{"token": signed, "role": role, "expires_in": timeToLive.String()})
			}
			_, err = fmt.Fprintln(state.out, signed)
			return err
		},
	}

	command.Flags().StringVar(&subject, "subject", "", "staff member the token is issued to")
	command.Flags().StringVar(&role, "role", string(sec.RoleLibrarian), "admin, librarian or clerk")
	command.Flags().DurationVar(&timeToLive, "ttl", constants.DefaultStaffTokenTTL, "token lifetime")
	_ = command.MarkFlagRequired("subject")

	return command
}
