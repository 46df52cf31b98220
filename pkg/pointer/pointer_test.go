// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/pkg/pointer"
)

/*
TestNilIfBlank tests blank collapsing for optional text columns.
*/
func TestNilIfBlank(t *testing.T) {
	assert.Nil(t, pointer.NilIfBlank(nil))
	assert.Nil(t, pointer.NilIfBlank(pointer.To("   ")))
	assert.Equal(t, "Fantasy", *pointer.NilIfBlank(pointer.To("  Fantasy ")))
}

/*
TestVal_Fallback tests nil-safe dereferencing.
*/
func TestVal_Fallback(t *testing.T) {
	var missing *int
	assert.Equal(t, 0, pointer.Val(missing))
	assert.Equal(t, 7, pointer.Fallback(missing, 7))
	assert.Equal(t, 3, pointer.Fallback(pointer.To(3), 7))
}
