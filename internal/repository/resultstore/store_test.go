package resultstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/recommendation"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, cfg Config) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(rdb, cfg, logger.NewTestLogger(t))
	s.now = func() time.Time { return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC) }
	return s, mr
}

func recs(n int) []recommendation.Recommendation {
	out := make([]recommendation.Recommendation, n)
	for i := range out {
		out[i] = recommendation.Recommendation{
			Program:      []string{"BSIT", "BSEE", "BSOA", "BSBA"}[i%4],
			MatchPercent: 99 - i,
			StoryWhy:     "why",
			RadarValues:  recommendation.RadarValues{85, 70, 80},
			TargetScore:  85,
			SuccessRate:  92,
		}
	}
	return out
}

func TestStore_SaveAndLoad(t *testing.T) {
	s, mr := setupStore(t, Config{TTL: 720 * time.Hour, MaxSaved: 3})
	ctx := context.Background()

	saved, err := s.Save(ctx, "student-1", "TEST001", recs(4))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.RunID)
	assert.Len(t, saved.Recommendations, 3)

	assert.Equal(t, "3", mr.HGet("results:student-1", "rec_count"))
	assert.Equal(t, "BSOA", mr.HGet("results:student-1", "rec_prog_2"))
	assert.Equal(t, "", mr.HGet("results:student-1", "rec_prog_3"))
	assert.Equal(t, 720*time.Hour, mr.TTL("results:student-1"))

	loaded, err := s.Load(ctx, " student-1 ")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.RunID, loaded.RunID)
	assert.Equal(t, "TEST001", loaded.TestID)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC), loaded.SavedAt)
	assert.Equal(t, saved.Recommendations, loaded.Recommendations)
}

func TestStore_SaveReplacesPreviousRun(t *testing.T) {
	s, mr := setupStore(t, Config{MaxSaved: 3})
	ctx := context.Background()

	first, err := s.Save(ctx, "student-1", "TEST001", recs(3))
	require.NoError(t, err)
	second, err := s.Save(ctx, "student-1", "FAIL001", recs(1))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, "", mr.HGet("results:student-1", "rec_prog_1"))

	loaded, err := s.Load(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, second.RunID, loaded.RunID)
	assert.Len(t, loaded.Recommendations, 1)
}

func TestStore_EmptyResultSet(t *testing.T) {
	s, _ := setupStore(t, Config{})
	ctx := context.Background()

	_, err := s.Save(ctx, "student-2", "TEST009", nil)
	require.NoError(t, err)

	loaded, err := s.Load(ctx, "student-2")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Recommendations)
}

func TestStore_LoadMissing(t *testing.T) {
	s, _ := setupStore(t, Config{})

	loaded, err := s.Load(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	loaded, err = s.Load(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Delete(t *testing.T) {
	s, mr := setupStore(t, Config{})
	ctx := context.Background()

	_, err := s.Save(ctx, "student-3", "TEST002", recs(2))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "student-3"))
	assert.False(t, mr.Exists("results:student-3"))
}

func TestStore_Errors(t *testing.T) {
	t.Run("blank student id", func(t *testing.T) {
		s, _ := setupStore(t, Config{})
		_, err := s.Save(context.Background(), "  ", "TEST001", recs(1))
		assert.Error(t, err)
	})

	t.Run("load failure", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectHGetAll("results:student-1").SetErr(errors.New("connection reset"))

		s := New(rdb, Config{}, logger.NewTestLogger(t))
		_, err := s.Load(context.Background(), "student-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt stored fields", func(t *testing.T) {
		s, mr := setupStore(t, Config{})
		mr.HSet("results:student-4", "rec_count", "many")

		_, err := s.Load(context.Background(), "student-4")
		assert.Error(t, err)
	})

	t.Run("save failure", func(t *testing.T) {
		s, mr := setupStore(t, Config{})
		mr.Close()

		_, err := s.Save(context.Background(), "student-5", "TEST001", recs(1))
		assert.Error(t, err)
	})
}
