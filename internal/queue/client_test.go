package queue

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

func TestJobStatus(t *testing.T) {
	cases := map[asynq.TaskState]string{
		asynq.TaskStatePending:   usecase.JobStatusPending,
		asynq.TaskStateScheduled: usecase.JobStatusPending,
		asynq.TaskStateRetry:     usecase.JobStatusPending,
		asynq.TaskStateActive:    usecase.JobStatusProcessing,
		asynq.TaskStateCompleted: usecase.JobStatusCompleted,
		asynq.TaskStateArchived:  usecase.JobStatusFailed,
	}
	for state, want := range cases {
		t.Run(state.String(), func(t *testing.T) {
			assert.Equal(t, want, JobStatus(state))
		})
	}
}

func TestRedisOptFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(config.ENV_KEY_REDIS_HOST, "")
		_, ok := RedisOptFromEnv()
		assert.False(t, ok)
	})

	t.Run("default port", func(t *testing.T) {
		t.Setenv(config.ENV_KEY_REDIS_HOST, "redis")
		t.Setenv(config.ENV_KEY_REDIS_PORT, "")
		t.Setenv(config.ENV_KEY_REDIS_PASSWORD, "pw")

		opt, ok := RedisOptFromEnv()
		assert.True(t, ok)
		assert.Equal(t, "redis:6379", opt.Addr)
		assert.Equal(t, "pw", opt.Password)
	})
}
