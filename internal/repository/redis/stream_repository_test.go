package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docking-planner/internal/domain"
	redisRepo "github.com/docking-planner/internal/repository/redis"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Test connection
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	// Clean up any existing test streams
	client.Del(ctx, "test:stream:pipeline:run", "test:stream:pipeline:done")

	return client
}

// TestStreamRepository_CreateConsumerGroup tests consumer group creation
func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger, 200*time.Millisecond)
	ctx := context.Background()

	streamName := "test:stream:pipeline:run"
	groupName := "test-group"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Verify group was created
	groups, err := client.XInfoGroups(ctx, streamName).Result()
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, groupName, groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	err = repo.CreateConsumerGroup(ctx, streamName, groupName)
	assert.NoError(t, err)
}

// TestStreamRepository_PublishToStream tests message publishing
func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger, 200*time.Millisecond)
	ctx := context.Background()

	streamName := "test:stream:pipeline:done"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	runID := uuid.New()
	event := &domain.PipelineDoneEvent{
		RunID: runID,
		Summary: &domain.RunSummary{
			RunID:    runID,
			Stage:    domain.StageAll,
			Stations: 3,
			Nodes:    3,
		},
	}

	// Publish to stream
	err := repo.PublishToStream(ctx, streamName, event)
	require.NoError(t, err)

	// Verify message was published
	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{streamName, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Len(t, messages[0].Messages, 1)

	// Verify message content
	msg := messages[0].Messages[0]
	dataStr, ok := msg.Values["data"].(string)
	require.True(t, ok)

	var receivedEvent domain.PipelineDoneEvent
	err = json.Unmarshal([]byte(dataStr), &receivedEvent)
	require.NoError(t, err)
	assert.Equal(t, runID, receivedEvent.RunID)
	require.NotNil(t, receivedEvent.Summary)
	assert.Equal(t, 3, receivedEvent.Summary.Nodes)
	assert.True(t, receivedEvent.Succeeded())
}

// TestStreamRepository_ConsumeStream tests message consumption
func TestStreamRepository_ConsumeStream(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger, 200*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	streamName := "test:stream:pipeline:run"
	groupName := "test-consumer-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(context.Background(), streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Publish a test message
	runID := uuid.New()
	testEvent := &domain.PipelineRunEvent{
		RunID:       runID,
		Stage:       domain.StageNodes,
		RequestedAt: time.Now().UTC(),
	}

	err = repo.PublishToStream(ctx, streamName, testEvent)
	require.NoError(t, err)

	// Consume messages
	msgChan, err := repo.ConsumeStream(ctx, streamName, groupName, consumerName)
	require.NoError(t, err)

	// Read message from channel
	select {
	case msg := <-msgChan:
		assert.NotEmpty(t, msg.ID)

		var receivedEvent domain.PipelineRunEvent
		err = json.Unmarshal([]byte(msg.Data), &receivedEvent)
		require.NoError(t, err)
		assert.Equal(t, runID, receivedEvent.RunID)
		assert.Equal(t, domain.StageNodes, receivedEvent.Stage)

	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestStreamRepository_AckMessage tests message acknowledgment
func TestStreamRepository_AckMessage(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger, 200*time.Millisecond)
	ctx := context.Background()

	streamName := "test:stream:pipeline:run"
	groupName := "test-ack-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(ctx, streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Publish a test message
	testEvent := &domain.PipelineRunEvent{
		RunID: uuid.New(),
		Stage: domain.StageAll,
	}
	err = repo.PublishToStream(ctx, streamName, testEvent)
	require.NoError(t, err)

	// Read message
	messages, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	messageID := messages[0].Messages[0].ID

	// Check pending messages before ACK
	pending, err := client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	// Acknowledge message
	err = repo.AckMessage(ctx, streamName, groupName, messageID)
	require.NoError(t, err)

	// Check pending messages after ACK
	pending, err = client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// TestStreamRepository_ConsumeStream_ContextCancellation tests graceful shutdown
func TestStreamRepository_ConsumeStream_ContextCancellation(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	logger := zap.NewNop()
	repo := redisRepo.NewStreamRepository(client, logger, 200*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	streamName := "test:stream:pipeline:run"
	groupName := "test-cancel-group"
	consumerName := "test-consumer"

	// Clean up
	defer func() {
		client.Del(context.Background(), streamName)
	}()

	// Create consumer group
	err := repo.CreateConsumerGroup(ctx, streamName, groupName)
	require.NoError(t, err)

	// Start consuming
	msgChan, err := repo.ConsumeStream(ctx, streamName, groupName, consumerName)
	require.NoError(t, err)

	// Cancel context after a short delay
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	// Channel should close when context is cancelled
	timeout := time.After(2 * time.Second)
	select {
	case _, ok := <-msgChan:
		if ok {
			// Received a message (ok if we get lucky with timing)
			// Continue to wait for channel close
			select {
			case _, ok := <-msgChan:
				assert.False(t, ok, "Channel should be closed")
			case <-timeout:
				t.Fatal("Channel not closed after context cancellation")
			}
		} else {
			// Channel closed as expected
			assert.False(t, ok)
		}
	case <-timeout:
		t.Fatal("Timeout waiting for channel to close")
	}
}

// TestStreamRepository_ClaimPending забирает сообщение, которое прочитал
// другой consumer и не подтвердил
func TestStreamRepository_ClaimPending(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop(), 200*time.Millisecond)
	ctx := context.Background()

	streamName := "test:stream:pipeline:run"
	groupName := "test-claim-group"

	defer func() {
		client.Del(ctx, streamName)
	}()

	require.NoError(t, repo.CreateConsumerGroup(ctx, streamName, groupName))

	runID := uuid.New()
	require.NoError(t, repo.PublishToStream(ctx, streamName, &domain.PipelineRunEvent{
		RunID: runID,
		Stage: domain.StageEdges,
	}))

	// consumer, который "упал" после чтения
	_, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: "crashed-consumer",
		Streams:  []string{streamName, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)

	claimed, err := repo.ClaimPending(ctx, streamName, groupName, "fresh-consumer", 0)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	var event domain.PipelineRunEvent
	require.NoError(t, json.Unmarshal([]byte(claimed[0].Data), &event))
	assert.Equal(t, runID, event.RunID)

	pending, err := client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: streamName,
		Group:  groupName,
		Start:  "-",
		End:    "+",
		Count:  10,
	}).Result()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "fresh-consumer", pending[0].Consumer)

	// свежие сообщения не забираются при большом minIdle
	again, err := repo.ClaimPending(ctx, streamName, groupName, "other-consumer", time.Hour)
	require.NoError(t, err)
	assert.Empty(t, again)
}

// TestStreamRepository_MalformedMessageAcknowledged: сообщение без поля data
// не должно оставаться в PEL
func TestStreamRepository_MalformedMessageAcknowledged(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	repo := redisRepo.NewStreamRepository(client, zap.NewNop(), 200*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	streamName := "test:stream:pipeline:run"
	groupName := "test-malformed-group"

	defer func() {
		client.Del(context.Background(), streamName)
	}()

	require.NoError(t, repo.CreateConsumerGroup(ctx, streamName, groupName))

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{"payload": "no data field"},
	}).Err())
	require.NoError(t, repo.PublishToStream(ctx, streamName, &domain.PipelineRunEvent{
		RunID: uuid.New(),
		Stage: domain.StageAll,
	}))

	msgChan, err := repo.ConsumeStream(ctx, streamName, groupName, "test-consumer")
	require.NoError(t, err)

	select {
	case msg := <-msgChan:
		assert.Contains(t, msg.Data, `"stage":"all"`)
		require.NoError(t, repo.AckMessage(ctx, streamName, groupName, msg.ID))
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}

	pending, err := client.XPending(ctx, streamName, groupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestDonePublisher_PublishDone(t *testing.T) {
	client := getTestRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	defer client.Del(ctx, domain.StreamPipelineDone)

	streams := redisRepo.NewStreamRepository(client, zap.NewNop(), 0)
	publisher := redisRepo.NewDonePublisher(streams)

	runID := uuid.New()
	err := publisher.PublishDone(ctx, &domain.PipelineDoneEvent{RunID: runID, Error: "fetch stations: boom"})
	require.NoError(t, err)

	messages, err := client.XRange(ctx, domain.StreamPipelineDone, "-", "+").Result()
	require.NoError(t, err)
	require.NotEmpty(t, messages)

	var got domain.PipelineDoneEvent
	require.NoError(t, json.Unmarshal([]byte(messages[len(messages)-1].Values["data"].(string)), &got))
	assert.Equal(t, runID, got.RunID)
	assert.False(t, got.Succeeded())
}
