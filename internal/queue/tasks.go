package queue

import (
	"encoding/json"

	"github.com/mowen-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostPublishState 文章发布状态变更任务类型
	TaskPostPublishState = constants.TaskPostPublishState
)

// PostPublishStatePayload 文章发布状态变更任务负载
type PostPublishStatePayload struct {
	PostID uint `json:"post_id"`
}

// NewPostPublishStateTask 构建发布状态变更任务
func NewPostPublishStateTask(postID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(PostPublishStatePayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskPostPublishState, payload), nil
}

// ParsePostPublishStatePayload 解析发布状态变更任务负载
func ParsePostPublishStatePayload(data []byte) (*PostPublishStatePayload, error) {
	var payload PostPublishStatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
