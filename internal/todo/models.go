package todo

// Item 是持久化的 todo 记录
type Item struct {
	ID          int64
	Title       string
	IsCompleted bool
}

// DTO 是对外返回的投影
type DTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

func (i Item) DTO() DTO {
	return DTO{ID: i.ID, Title: i.Title, IsCompleted: i.IsCompleted}
}

type createTodoRequest struct {
	Title *string `json:"title"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	IsCompleted bool    `json:"isCompleted"`
}

// Page 是分页列表的响应外层
type Page struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalCount int64  `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
	SortBy     string `json:"sortBy"`
	SortDir    string `json:"sortDir"`
	Items      []DTO  `json:"items"`
}
