package main

import (
	"testing"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBBox(t *testing.T) {
	bbox, err := parseBBox("35.89, 139.61,35.92,139.64")
	require.NoError(t, err)
	assert.Equal(t, datastructure.NewBoundingBox(35.89, 139.61, 35.92, 139.64), bbox)

	for _, s := range []string{"1,2,3", "a,b,c,d", "36,139,35,140"} {
		_, err := parseBBox(s)
		assert.Error(t, err, s)
	}
}
