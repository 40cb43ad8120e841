package assistant

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationStartsWithGreeting(t *testing.T) {
	c := NewConversation()
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderAI, msgs[0].Sender)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestConversationAppendKeepsOrder(t *testing.T) {
	c := NewConversation()
	c.Append(NewMessage(SenderUser, "Tell me about Atif Aslam"))
	c.Append(NewMessage(SenderAI, "Atif Aslam is a singer."))

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, SenderUser, msgs[1].Sender)
	assert.Equal(t, SenderAI, msgs[2].Sender)
	assert.NotEqual(t, msgs[1].ID, msgs[2].ID)

	msgs[1].Text = "edited"
	assert.Equal(t, "Tell me about Atif Aslam", c.Messages()[1].Text)
}

func TestConversationConcurrentAppend(t *testing.T) {
	c := NewConversation()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(NewMessage(SenderUser, "hi"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 21, c.Len())
}
