package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("object surrounded by prose", func(t *testing.T) {
		var got map[string]any
		err := ExtractJSON("Sure! Here it is:\n```json\n{\"query_type\": \"flight\", \"origin\": \"SF\"}\n```\nAnything else?", &got)
		require.NoError(t, err)
		assert.Equal(t, "flight", got["query_type"])
		assert.Equal(t, "SF", got["origin"])
	})

	t.Run("array first", func(t *testing.T) {
		var got []map[string]string
		err := ExtractJSON(`result: [{"a": "1"}, {"a": "2"}] done`, &got)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no json", func(t *testing.T) {
		var got map[string]any
		assert.ErrorIs(t, ExtractJSON("nothing here", &got), ErrNoJSON)
	})

	t.Run("unbalanced", func(t *testing.T) {
		var got map[string]any
		assert.ErrorIs(t, ExtractJSON("} oops {", &got), ErrNoJSON)
	})

	t.Run("invalid body", func(t *testing.T) {
		var got map[string]any
		err := ExtractJSON("{not json}", &got)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoJSON)
	})
}
