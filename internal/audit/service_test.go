package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	rows       []TimelineRow
	lastLimit  int
	lastOffset int
	lastFilter TimelineFilters
}

func (s *stubReader) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	s.lastFilter = filters
	if len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func makeRows(n int) []TimelineRow {
	rows := make([]TimelineRow, n)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = TimelineRow{
			At:       base.Add(-time.Duration(i) * time.Hour),
			ActorID:  1,
			Action:   ActionLogin,
			Entity:   "user",
			EntityID: "1",
		}
	}
	return rows
}

func TestTimelineDefaultsPaging(t *testing.T) {
	reader := &stubReader{rows: makeRows(5)}
	svc := NewService(reader)

	result, err := svc.Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Paging.Page)
	assert.Equal(t, 20, result.Paging.PageSize)
	assert.False(t, result.Paging.HasNext)
	assert.Len(t, result.Rows, 5)
	assert.Equal(t, 21, reader.lastLimit)
	assert.Equal(t, 0, reader.lastOffset)
}

func TestTimelineDetectsNextPage(t *testing.T) {
	reader := &stubReader{rows: makeRows(25)}
	svc := NewService(reader)

	result, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 10)
	assert.True(t, result.Paging.HasNext)
	assert.Equal(t, 2, result.Paging.NextPage)
	assert.Zero(t, result.Paging.PrevPage)
}

func TestTimelineClampsPageSize(t *testing.T) {
	reader := &stubReader{}
	svc := NewService(reader)

	result, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Paging.PageSize)
	assert.Equal(t, 51, reader.lastLimit)
	assert.Empty(t, result.Rows)
	assert.NotNil(t, result.Rows)
}

func TestTimelineSecondPageOffset(t *testing.T) {
	reader := &stubReader{rows: makeRows(3)}
	svc := NewService(reader)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, reader.lastOffset)
	assert.Equal(t, 1, result.Paging.PrevPage)
}

func TestTimelineWithoutReader(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Timeline(context.Background(), TimelineFilters{})
	assert.Error(t, err)
}

func TestRecordTaskRoundTrip(t *testing.T) {
	event := Event{ActorID: 7, Action: ActionUserPromote, Entity: "user", EntityID: "7", At: time.Now().UTC()}
	task, err := NewRecordTask(event)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRecord, task.Type())
	assert.NotEmpty(t, task.Payload())
}
