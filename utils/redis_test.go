package utils

import (
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestGetQueueClientReturnsSharedInstance(t *testing.T) {
	prev := QueueClient
	t.Cleanup(func() { QueueClient = prev })

	// The worker's health monitor and the asynq enqueue path share one
	// client; the accessor must hand back the initialized instance rather
	// than dialing a new one.
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	QueueClient = client

	assert.Same(t, client, GetQueueClient())
}
