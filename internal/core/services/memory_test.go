package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMemory_UnknownSessionEmpty(t *testing.T) {
	memory := NewConversationMemory(2)

	assert.Empty(t, memory.History("nope"))
	assert.Nil(t, memory.Exchanges("nope"))
}

func TestConversationMemory_HistoryFormat(t *testing.T) {
	memory := NewConversationMemory(2)
	memory.Append("s1", "What is MCP?", "MCP is a protocol.")

	history := memory.History("s1")

	assert.Equal(t, "User: What is MCP?\nAssistant: MCP is a protocol.", history)
}

func TestConversationMemory_SlidingWindowEviction(t *testing.T) {
	memory := NewConversationMemory(2)
	memory.Append("s1", "q1", "a1")
	memory.Append("s1", "q2", "a2")
	memory.Append("s1", "q3", "a3")

	exchanges := memory.Exchanges("s1")

	require.Len(t, exchanges, 2)
	assert.Equal(t, "q2", exchanges[0].User)
	assert.Equal(t, "q3", exchanges[1].User)

	history := memory.History("s1")
	assert.NotContains(t, history, "q1")
	assert.Contains(t, history, "q2")
	assert.Contains(t, history, "q3")
}

func TestConversationMemory_SessionIsolation(t *testing.T) {
	memory := NewConversationMemory(2)
	memory.Append("alice", "alice question", "alice answer")
	memory.Append("bob", "bob question", "bob answer")

	assert.NotContains(t, memory.History("alice"), "bob")
	assert.NotContains(t, memory.History("bob"), "alice")
}

func TestConversationMemory_NonPositiveWindowUsesDefault(t *testing.T) {
	memory := NewConversationMemory(0)

	for i := 0; i < 5; i++ {
		memory.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	assert.Len(t, memory.Exchanges("s1"), DefaultHistoryWindow)
}

func TestConversationMemory_ConcurrentAppends(t *testing.T) {
	memory := NewConversationMemory(3)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", n%4)
			memory.Append(session, "q", "a")
			_ = memory.History(session)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		assert.Len(t, memory.Exchanges(fmt.Sprintf("s%d", i)), 3)
	}
}

func TestConversationMemory_ExchangesReturnsCopy(t *testing.T) {
	memory := NewConversationMemory(2)
	memory.Append("s1", "q1", "a1")

	exchanges := memory.Exchanges("s1")
	exchanges[0].User = "mutated"

	assert.Equal(t, "q1", memory.Exchanges("s1")[0].User)
}
