package worker

import (
	"context"
	"encoding/json"

	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/provider"
	"github.com/mowen-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostPublishState, c.handlePostPublishState)
}

// handlePostPublishState 文章发布状态变更后刷新公开缓存
func (c *Consumer) handlePostPublishState(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_post_publish_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PostPublishStatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_post_publish_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_post_publish_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.PostService == nil {
		logger.Warnw("worker_post_publish_skip_post_service_nil", "post_id", payload.PostID)
		return nil
	}
	if err := c.PostService.RefreshPublicCache(ctx, payload.PostID); err != nil {
		logger.Warnw("worker_post_publish_refresh_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}
