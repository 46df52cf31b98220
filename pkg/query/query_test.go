// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/pkg/query"
)

/*
TestInt64Slice tests identifier list parsing.
*/
func TestInt64Slice(t *testing.T) {
	ids, err := query.Int64Slice(" 1, 2,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = query.Int64Slice("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = query.Int64Slice("1,two")
	assert.ErrorContains(t, err, "two")
}
