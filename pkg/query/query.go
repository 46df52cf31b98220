// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued command-line and URL query arguments.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Int64Slice parses a comma-separated list of identifiers such as "1, 2,3".
// Blank entries are skipped; a malformed entry is an error naming it.
func Int64Slice(val string) ([]int64, error) {
	var res []int64
	for _, v := range StringSlice(val) {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid identifier %q", v)
		}
		res = append(res, id)
	}
	return res, nil
}

// StringSlice parses a single comma-separated string into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
