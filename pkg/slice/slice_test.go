// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/pkg/slice"
)

/*
TestUnique tests order-preserving de-duplication.
*/
func TestUnique(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, slice.Unique([]int64{3, 1, 3, 2, 1}))
	assert.Equal(t, []int64{}, slice.Unique([]int64{}))
	assert.Nil(t, slice.Unique[int64](nil))
}

/*
TestMapFilterIndex tests the remaining helpers.
*/
func TestMapFilterIndex(t *testing.T) {
	ids := []int{1, 2, 3, 4}

	assert.Equal(t, []string{"1", "2", "3", "4"}, slice.Map(ids, strconv.Itoa))
	assert.Equal(t, []int{2, 4}, slice.Filter(ids, func(v int) bool { return v%2 == 0 }))

	index := slice.Index(ids, func(v int) int { return v * 10 })
	assert.Equal(t, 3, index[30])
	assert.Len(t, index, 4)
}
