package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanm101/flashman/internal/assets"
)

func TestPrefetchSummaryCount(t *testing.T) {
	var sum prefetchSummary

	sum.count(assets.Ready{Asset: assets.Logo("a"), Local: true})
	sum.count(assets.Ready{Asset: assets.Logo("b")})
	sum.count(assets.Ready{Asset: assets.Logo(""), Image: assets.ErrorImage, Err: assets.ErrInvalidAsset})
	sum.count(assets.Ready{Asset: assets.Logo("c"), Image: assets.ErrorImage, Err: assets.ErrClosed, Local: true})

	assert.Equal(t, 1, sum.Local)
	assert.Equal(t, 1, sum.Fetched)
	assert.Equal(t, 2, sum.Failed)
}
