package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/hibiken/asynq"
)

func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost re-reads the post before dispatching: the cron sweep may have
// beaten the queue to it, or the user may have removed the post while the
// task sat in Redis. Only still-scheduled posts go out.
func (j *Queue) PublishPost(ctx context.Context, postID int64) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("queue: post %d no longer exists, dropping task", postID)
		return nil
	}

	if post.Status != models.PostStatusScheduled {
		log.Printf("queue: post %d is %s, dropping task", postID, post.Status)
		return nil
	}

	if err := j.dispatch.ExecutePost(ctx, post); err != nil {
		// The post is already marked failed; retrying the task would
		// re-publish against the no-auto-retry rule.
		log.Printf("queue: post %d: %v", postID, err)
		return nil
	}

	return nil
}
