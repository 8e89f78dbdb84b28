package service

import "errors"

// 业务层错误类别
// handler 层通过 errors.Is 映射为响应码，仓库层不直接产生这些错误。
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrSlugExists slug 已被占用（含标题归一化后为空串的情况）
	ErrSlugExists = errors.New("slug already exists")
	// ErrEmptyTitle 标题为空
	ErrEmptyTitle = errors.New("title is required")
	// ErrEmptyContent 正文为空
	ErrEmptyContent = errors.New("content is required")
	// ErrInvalidCredentials 凭据不匹配（不区分邮箱错误与密码错误）
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrFederatedEmailRejected 联邦登录邮箱不在允许名单
	ErrFederatedEmailRejected = errors.New("federated email rejected")
)
