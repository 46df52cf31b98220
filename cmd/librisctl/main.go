// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command librisctl is the staff command line for a Libris catalog.
//
// It talks to the catalog store directly (PostgreSQL or SQLite) through the
// same domain services the HTTP API uses, so seeding, searching and desk
// operations follow identical rules.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
