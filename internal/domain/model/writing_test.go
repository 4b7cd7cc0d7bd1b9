package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateReadTime(t *testing.T) {
	assert.Equal(t, 1, EstimateReadTime(""))
	assert.Equal(t, 1, EstimateReadTime("a few words"))
	assert.Equal(t, 1, EstimateReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, EstimateReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, EstimateReadTime(strings.Repeat("word ", 1000)))
}

func TestWritingMatches(t *testing.T) {
	w := &Writing{
		Title:       "Night Train",
		Description: "A short ride",
		Content:     "The carriage rattled on.",
		Category:    "Fiction",
		Tags:        []string{"Travel", "noir"},
	}
	for _, q := range []string{"night", "RIDE", "rattled", "fict", "trav", "NOIR"} {
		assert.True(t, w.Matches(q), q)
	}
	assert.False(t, w.Matches("poetry"))
	assert.True(t, w.HasTag("travel"))
	assert.False(t, w.HasTag("trav"))
}

func TestWritingTagsColumn(t *testing.T) {
	w := &Writing{Tags: []string{"a", "b"}}
	w.EncodeTags()
	assert.Equal(t, `["a","b"]`, w.TagsJSON)

	w.Tags = nil
	w.DecodeTags()
	assert.Equal(t, []string{"a", "b"}, w.Tags)

	w = &Writing{}
	w.EncodeTags()
	w.DecodeTags()
	assert.Nil(t, w.Tags)
}

func TestWritingDetailJSONShape(t *testing.T) {
	d := WritingDetail{
		WritingView: WritingView{
			Writing: Writing{ID: 3, Title: "T", TagsJSON: `["x"]`, Tags: []string{"x"}},
			Stats:   WritingStats{Likes: 1},
		},
	}
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, float64(3), out["id"])
	assert.Nil(t, out["author"])
	assert.Equal(t, map[string]interface{}{"likes": float64(1), "comments": float64(0)}, out["stats"])
	assert.Equal(t, map[string]interface{}{"liked": false, "bookmarked": false}, out["userInteraction"])
	assert.NotContains(t, out, "TagsJSON")
}
