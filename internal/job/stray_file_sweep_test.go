package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil/mocks"
)

func TestStrayFileSweepJob_Run_RemovesOnlyStaleFiles(t *testing.T) {
	ctx := context.Background()
	strayStore := mocks.NewMockStrayFileStore(t)

	strayStore.On("ListStrayFiles", ctx).Return([]service.StrayFile{
		{Name: ".assembling-abc", ModifiedAt: time.Now().Add(-2 * time.Hour)},
		{Name: ".ingest-def", ModifiedAt: time.Now().Add(-10 * time.Minute)},
	}, nil)
	strayStore.On("RemoveStrayFile", ctx, ".assembling-abc").Return(nil)

	count, err := NewStrayFileSweepJob(strayStore, time.Hour).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	strayStore.AssertNotCalled(t, "RemoveStrayFile", ctx, ".ingest-def")
}

func TestStrayFileSweepJob_Run_RemovalFailureDoesNotStopSweep(t *testing.T) {
	ctx := context.Background()
	strayStore := mocks.NewMockStrayFileStore(t)

	strayStore.On("ListStrayFiles", ctx).Return([]service.StrayFile{
		{Name: ".assembling-a", ModifiedAt: time.Now().Add(-2 * time.Hour)},
		{Name: ".assembling-b", ModifiedAt: time.Now().Add(-2 * time.Hour)},
	}, nil)
	strayStore.On("RemoveStrayFile", ctx, ".assembling-a").Return(errors.New("permission denied"))
	strayStore.On("RemoveStrayFile", ctx, ".assembling-b").Return(nil)

	count, err := NewStrayFileSweepJob(strayStore, time.Hour).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
