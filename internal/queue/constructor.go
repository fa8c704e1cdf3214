package queue

import (
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/service"
)

type Queue struct {
	pr       repository.PostRepository
	dispatch service.DispatchService
}

func NewQueue(pr repository.PostRepository, dispatch service.DispatchService) *Queue {
	return &Queue{
		pr:       pr,
		dispatch: dispatch,
	}
}

const TaskTypeSchedulePost = "schedule:post"

type SchedulePostPayload struct {
	PostID int64 `json:"post_id"`
}
