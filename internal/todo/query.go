package todo

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	SortByID    = "id"
	SortByTitle = "title"
	SortAsc     = "asc"
	SortDesc    = "desc"
)

type sortKey struct {
	by  string
	dir string
}

// 固定的排序表，未命中时回退到 id desc
var sortOrders = map[sortKey]string{
	{SortByTitle, SortAsc}:  "title ASC, id ASC",
	{SortByTitle, SortDesc}: "title DESC, id DESC",
	{SortByID, SortAsc}:     "id ASC",
	{SortByID, SortDesc}:    "id DESC",
}

// ListParams 是列表接口的原始查询参数
type ListParams struct {
	Page        int
	PageSize    int
	IsCompleted *bool
	Search      string
	SortBy      string
	SortDir     string
}

// ListQuery 是归一化后的查询条件
type ListQuery struct {
	Page        int
	PageSize    int
	IsCompleted *bool
	Search      string
	SortBy      string
	SortDir     string
}

// ParseListParams 解析 query string，未提供的参数使用默认值；数字或布尔值非法时返回错误
func ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Search:  values.Get("search"),
		SortBy:  SortByID,
		SortDir: SortDesc,
	}

	var err error
	if params.Page, err = intParam(values, "page", DefaultPage); err != nil {
		return ListParams{}, err
	}
	if params.PageSize, err = intParam(values, "pageSize", DefaultPageSize); err != nil {
		return ListParams{}, err
	}
	if raw := values.Get("isCompleted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ListParams{}, fmt.Errorf("invalid isCompleted %q", raw)
		}
		params.IsCompleted = &parsed
	}
	if raw := values.Get("sortBy"); raw != "" {
		params.SortBy = raw
	}
	if raw := values.Get("sortDir"); raw != "" {
		params.SortDir = raw
	}
	return params, nil
}

func intParam(values url.Values, key string, fallback int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return parsed, nil
}

// Normalize 夹紧分页参数、去掉 search 首尾空白，并把排序解析到固定排序表
func (p ListParams) Normalize() ListQuery {
	q := ListQuery{
		Page:        p.Page,
		PageSize:    p.PageSize,
		IsCompleted: p.IsCompleted,
		Search:      strings.TrimSpace(p.Search),
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	key := sortKey{by: strings.ToLower(p.SortBy), dir: strings.ToLower(p.SortDir)}
	if _, ok := sortOrders[key]; !ok {
		key = sortKey{by: SortByID, dir: SortDesc}
	}
	q.SortBy, q.SortDir = key.by, key.dir
	return q
}

// Offset 是当前页之前跳过的行数
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func (q ListQuery) orderBy() string {
	if order, ok := sortOrders[sortKey{by: q.SortBy, dir: q.SortDir}]; ok {
		return order
	}
	return sortOrders[sortKey{by: SortByID, dir: SortDesc}]
}

func (q ListQuery) where(driver string) (string, []any) {
	// 按需拼接过滤条件，参数统一用 $n 占位
	var clauses []string
	var args []any

	if q.IsCompleted != nil {
		args = append(args, *q.IsCompleted)
		clauses = append(clauses, fmt.Sprintf("is_completed = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, containsPattern(q.Search))
		clauses = append(clauses, fmt.Sprintf(`title %s $%d ESCAPE '\'`, likeOperator(driver), len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// TotalPages 向上取整
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(pageSize)))
}
