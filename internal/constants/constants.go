package constants

// 用户角色常量
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskPostPublishState = "post:publish_state"
)

// 分页默认值常量
const (
	PublicPostsDefaultPageSize = 12
	AdminPostsDefaultPageSize  = 20
	MaxPageSize                = 100
)
