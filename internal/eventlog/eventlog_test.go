package eventlog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/db/dbtest"
	"github.com/mind-engage/quizsystem/internal/eventlog"
)

func TestAppend(t *testing.T) {
	ctx := context.Background()
	d := dbtest.Open(t)

	require.NoError(t, eventlog.Append(ctx, d.SQL, eventlog.TypeResultRecorded, "1", map[string]int{"score": 2}))

	// an event appended in a rolled back transaction must not survive
	err := db.WithTx(ctx, d, func(tx *sql.Tx) error {
		require.NoError(t, eventlog.Append(ctx, tx, eventlog.TypeResultRecorded, "2", nil))
		return errors.New("abort")
	})
	require.Error(t, err)

	events, err := eventlog.List(ctx, d.SQL, eventlog.TypeResultRecorded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "1", events[0].Key)
	require.JSONEq(t, `{"score":2}`, string(events[0].Data))
}

func TestList_Empty(t *testing.T) {
	events, err := eventlog.List(context.Background(), dbtest.Open(t).SQL, eventlog.TypeInstructorDeleted)
	require.NoError(t, err)
	require.NotNil(t, events)
	require.Empty(t, events)
}

func TestKnown(t *testing.T) {
	require.True(t, eventlog.Known(eventlog.TypeResultRecorded))
	require.True(t, eventlog.Known(eventlog.TypeInstructorDeleted))
	require.False(t, eventlog.Known("resultrecorded"))
	require.False(t, eventlog.Known(""))
}
