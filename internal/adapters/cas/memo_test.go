package cas_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/packer/internal/adapters/cas"
	"go.trai.ch/packer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestMemoStore_ReadIsMemoized(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockArtifactStore(ctrl)
	ctx := context.Background()

	next.EXPECT().Read(ctx, "/out/_a.css").Return([]byte("a"), nil).Times(1)
	next.EXPECT().Exists(ctx, "/out/_a.css").Return(true, nil)

	memo, err := cas.NewMemoStore(next, 4)
	require.NoError(t, err)

	for range 3 {
		data, err := memo.Read(ctx, "/out/_a.css")
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	}

	ok, err := memo.Exists(ctx, "/out/_a.css")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoStore_WriteThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockArtifactStore(ctrl)
	ctx := context.Background()

	next.EXPECT().Write(ctx, "/out/_b.js", []byte("b")).Return(nil).Times(1)

	memo, err := cas.NewMemoStore(next, 0)
	require.NoError(t, err)

	require.NoError(t, memo.Write(ctx, "/out/_b.js", []byte("b")))

	data, err := memo.Read(ctx, "/out/_b.js")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	assert.Equal(t, 1, memo.Len())
}

func TestMemoStore_ErrorsAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockArtifactStore(ctrl)
	ctx := context.Background()
	boom := errors.New("boom")

	next.EXPECT().Write(ctx, "/out/_c.css", gomock.Any()).Return(boom)
	next.EXPECT().Exists(ctx, "/out/_c.css").Return(false, nil)
	next.EXPECT().Read(ctx, "/out/_c.css").Return(nil, boom)

	memo, err := cas.NewMemoStore(next, 2)
	require.NoError(t, err)

	require.ErrorIs(t, memo.Write(ctx, "/out/_c.css", []byte("c")), boom)

	ok, err := memo.Exists(ctx, "/out/_c.css")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = memo.Read(ctx, "/out/_c.css")
	require.ErrorIs(t, err, boom)
	assert.Zero(t, memo.Len())
}

func TestMemoStore_Eviction(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockArtifactStore(ctrl)
	ctx := context.Background()

	next.EXPECT().Write(ctx, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	next.EXPECT().Exists(ctx, "/out/1").Return(true, nil)

	memo, err := cas.NewMemoStore(next, 1)
	require.NoError(t, err)

	require.NoError(t, memo.Write(ctx, "/out/1", []byte("1")))
	require.NoError(t, memo.Write(ctx, "/out/2", []byte("2")))

	ok, err := memo.Exists(ctx, "/out/1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, memo.Len())
}

func TestMemoStore_ForgetsRemovedArtifacts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "_d.css")

	disk, err := cas.NewStore()
	require.NoError(t, err)
	memo, err := cas.NewMemoStore(disk, 4)
	require.NoError(t, err)

	require.NoError(t, memo.Write(ctx, path, []byte("d")))
	require.NoError(t, os.Remove(path))

	ok, err := memo.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, memo.Len())

	require.NoError(t, memo.Write(ctx, path, []byte("d")))
	assert.FileExists(t, path)
}
