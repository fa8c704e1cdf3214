package queue

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// EnqueuePost queues delivery of an approved post after the given delay. The
// worker re-reads the post when the task fires, so a post removed or already
// swept in the meantime is dropped, not double-published.
func EnqueuePost(asynqClient *asynq.Client, payload SchedulePostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeSchedulePost, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	log.Printf("queue: post %d delivery scheduled in %s", payload.PostID, delay)
	return nil
}
