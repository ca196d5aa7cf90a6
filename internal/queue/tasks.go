package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"realty-marketing-platform/internal/logger"
	"realty-marketing-platform/services"
)

const TaskBlogTranslate = "blog:translate"

type BlogTranslatePayload struct {
	PostID   string `json:"post_id"`
	ClientID string `json:"client_id"`
}

func NewBlogTranslateTask(postID, clientID string) (*asynq.Task, error) {
	payload, err := json.Marshal(BlogTranslatePayload{
		PostID:   postID,
		ClientID: clientID,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBlogTranslate,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Queue("default"),
	), nil
}

// Enqueuer is the write side of the queue, injected into the blog service
// for the post-create translation pass.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueBlogTranslate(ctx context.Context, postID, clientID string) error {
	task, err := NewBlogTranslateTask(postID, clientID)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	logger.Debug("Enqueued translation pass", "post_id", postID, "task_id", info.ID, "queue", info.Queue)
	return nil
}

// TaskProcessor handles queued work in the worker binary.
type TaskProcessor struct {
	blog *services.BlogService
}

func NewTaskProcessor(blog *services.BlogService) *TaskProcessor {
	return &TaskProcessor{blog: blog}
}

func (p *TaskProcessor) HandleBlogTranslate(ctx context.Context, t *asynq.Task) error {
	var payload BlogTranslatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	post, err := p.blog.TranslatePost(ctx, payload.PostID)
	if err != nil {
		logger.Error("Translation pass failed", "post_id", payload.PostID, "error", err)
		return err
	}

	logger.Info("Translation pass completed", "post_id", payload.PostID, "slug", post.Slug)
	return nil
}
