package conversation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/core"
)

func TestMessageCodecRoundTrip(t *testing.T) {
	msgs := []core.Message{
		core.SystemMessage{Content: "You are a helpful assistant."},
		core.HumanMessage{Content: "Draft an email to Bob"},
		core.AIMessage{
			Content: "Working on it",
			ToolCalls: []core.ToolCall{
				{ID: "call_1", Name: "draft_email", Args: map[string]any{"to": "bob@example.com"}},
			},
		},
		core.ToolMessage{Content: "Draft saved", ToolCallID: "call_1", ToolName: "draft_email"},
	}

	for _, msg := range msgs {
		data, err := EncodeMessage(msg)
		require.NoError(t, err)

		decoded, err := DecodeMessage(data)
		require.NoError(t, err)
		assert.Equal(t, msg, decoded)
	}
}

func TestDecodeMessageUnknownRole(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"role":"oracle","content":"hi"}`))
	assert.Error(t, err)
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()

	history, err := store.History("t1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, store.Append("t1", core.HumanMessage{Content: "hello"}))
	require.NoError(t, store.Append("t1", core.AIMessage{Content: "hi there"}))
	require.NoError(t, store.Append("t2", core.HumanMessage{Content: "other thread"}))

	history, err = store.History("t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.HumanMessage{Content: "hello"}, history[0])
	assert.Equal(t, core.AIMessage{Content: "hi there"}, history[1])

	other, err := store.History("t2")
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestInMemoryStoreHistoryIsCopy(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Append("t1", core.HumanMessage{Content: "a"}))

	history, err := store.History("t1")
	require.NoError(t, err)
	history[0] = core.HumanMessage{Content: "mutated"}

	fresh, err := store.History("t1")
	require.NoError(t, err)
	assert.Equal(t, core.HumanMessage{Content: "a"}, fresh[0])
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	history, err := store.History("t1")
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, store.Append("t1",
		core.HumanMessage{Content: "schedule a meeting"},
		core.AIMessage{Content: "Done", ToolCalls: []core.ToolCall{
			{ID: "call_9", Name: "create_event", Args: map[string]any{"summary": "Sync"}},
		}},
	))

	history, err = store.History("t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.HumanMessage{Content: "schedule a meeting"}, history[0])

	ai, ok := history[1].(core.AIMessage)
	require.True(t, ok)
	require.Len(t, ai.ToolCalls, 1)
	assert.Equal(t, "create_event", ai.ToolCalls[0].Name)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append("t1", core.HumanMessage{Content: "persist me"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.History("t1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, core.HumanMessage{Content: "persist me"}, history[0])
}
