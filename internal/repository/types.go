package repository

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page        int
	PageSize    int
	Published   *bool // nil 表示不过滤发布状态
	OrderBy     string
	WithCreator bool
}
