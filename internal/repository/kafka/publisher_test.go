package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/docking-planner/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublisher_PublishDone(t *testing.T) {
	runID := uuid.New()
	event := &domain.PipelineDoneEvent{
		RunID:   runID,
		Summary: &domain.RunSummary{RunID: runID, Nodes: 7},
	}

	t.Run("writes keyed json message", func(t *testing.T) {
		writer := new(mockWriter)
		var written []kafka.Message
		writer.On("WriteMessages", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				written = args.Get(1).([]kafka.Message)
			}).
			Return(nil)

		p := NewPublisherWithWriter(writer, "pipeline.done", zap.NewNop())
		require.NoError(t, p.PublishDone(context.Background(), event))

		require.Len(t, written, 1)
		assert.Equal(t, runID.String(), string(written[0].Key))

		var got domain.PipelineDoneEvent
		require.NoError(t, json.Unmarshal(written[0].Value, &got))
		assert.Equal(t, runID, got.RunID)
		assert.Equal(t, 7, got.Summary.Nodes)
		writer.AssertExpectations(t)
	})

	t.Run("write error", func(t *testing.T) {
		writer := new(mockWriter)
		writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		p := NewPublisherWithWriter(writer, "pipeline.done", zap.NewNop())
		err := p.PublishDone(context.Background(), event)
		assert.ErrorContains(t, err, "broker down")
	})
}

func TestPublisher_Close(t *testing.T) {
	writer := new(mockWriter)
	writer.On("Close").Return(nil)

	p := NewPublisherWithWriter(writer, "pipeline.done", zap.NewNop())
	assert.NoError(t, p.Close())
	writer.AssertExpectations(t)
}
