package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"page-slicer/internal/page"
)

func TestSliceTaskRoundTrip(t *testing.T) {
	in := SlicePayload{
		Name:     "report",
		Metadata: page.Metadata{"url": "https://example.com/r", "title": "Report"},
		Text:     []string{"page one", "page two"},
	}
	task, err := NewSliceTask(in)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSlice, task.Type)
	assert.NotEqual(t, uuid.Nil, task.ID)

	out, err := DecodeSlice(task)
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Text, out.Text)
	assert.Equal(t, "Report", out.Metadata.Title())
}

func TestNewSliceTaskRequiresName(t *testing.T) {
	_, err := NewSliceTask(SlicePayload{Text: []string{"x"}})
	assert.Error(t, err)
}

func TestDecodeSliceRejectsOtherTypes(t *testing.T) {
	_, err := DecodeSlice(Task{Type: "other", Payload: []byte(`{}`)})
	assert.Error(t, err)

	_, err = DecodeSlice(Task{Type: TaskTypeSlice, Payload: []byte(`not json`)})
	assert.Error(t, err)
}

func TestEnqueueWithRetry(t *testing.T) {
	task := Task{ID: uuid.New(), Type: TaskTypeSlice}

	t.Run("succeeds after a transient failure", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats down")).Once()
		q.On("Enqueue", mock.Anything, task).Return(nil).Once()

		err := EnqueueWithRetry(context.Background(), q, task, 3, time.Millisecond)
		require.NoError(t, err)
		q.AssertNumberOfCalls(t, "Enqueue", 2)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		q := new(MockQueue)
		q.On("Enqueue", mock.Anything, task).Return(errors.New("nats down"))

		err := EnqueueWithRetry(context.Background(), q, task, 2, time.Millisecond)
		assert.EqualError(t, err, "nats down")
		q.AssertNumberOfCalls(t, "Enqueue", 2)
	})
}
