package tokenizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplay/internal/token"
)

func TestCachedMemoisesLines(t *testing.T) {
	ctx := context.Background()
	mock := NewMock()
	mock.Set("私は学生です",
		token.Group{{Text: "私", Reading: "ワタシ", POS: "名詞,代名詞,一般,*", WordType: token.WordTypeKnown}},
		token.Group{{Text: "は", Reading: "ハ", POS: "助詞,係助詞,*,*", WordType: token.WordTypeKnown}},
	)

	c, err := NewCached(mock, 8)
	require.NoError(t, err)

	first, err := c.Tokenize(ctx, "私は学生です")
	require.NoError(t, err)
	second, err := c.Tokenize(ctx, "私は学生です")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, 1, c.Len())

	// Mutating a returned slice must not leak into the cache.
	second[0][0].Text = "僕"
	third, err := c.Tokenize(ctx, "私は学生です")
	require.NoError(t, err)
	assert.Equal(t, "私", third[0][0].Text)
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	ctx := context.Background()
	mock := NewMock()
	mock.FailWith(errors.New("boom"))

	c, err := NewCached(mock, 8)
	require.NoError(t, err)

	_, err = c.Tokenize(ctx, "line")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	mock.FailWith(nil)
	groups, err := c.Tokenize(ctx, "line")
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, 2, mock.CallCount())
}

func TestCachedResetCache(t *testing.T) {
	ctx := context.Background()
	mock := NewMock()
	c, err := NewCached(mock, 8)
	require.NoError(t, err)

	_, err = c.Tokenize(ctx, "a")
	require.NoError(t, err)
	c.ResetCache()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, mock.Resets())

	_, err = c.Tokenize(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestNewCachedRejectsZeroSize(t *testing.T) {
	_, err := NewCached(NewMock(), 0)
	assert.Error(t, err)
}
