package service

import "math"

// Pagination 描述分页列表的页码信息。
// 页码越界时 Page 保持请求值，列表为空但结构依然有效。
type Pagination struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// NewPagination 规范化页码与每页数量并计算总页数。
func NewPagination(page, perPage int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	p := Pagination{Page: page, PerPage: perPage, Total: total}
	if total == 0 {
		p.TotalPages = 1
	} else {
		p.TotalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return p
}

// Offset 返回当前页在结果集中的偏移量，超大页码时封顶为 math.MaxInt。
func (p Pagination) Offset() int {
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// OutOfRange 表示请求页超出总页数，此时无需查询数据。
func (p Pagination) OutOfRange() bool {
	return p.Page > p.TotalPages
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }

func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

func (p Pagination) PrevNum() int { return p.Page - 1 }

func (p Pagination) NextNum() int {
	if p.Page == math.MaxInt {
		return p.Page
	}
	return p.Page + 1
}

// Pages 返回 1..TotalPages，供模板渲染页码。
func (p Pagination) Pages() []int {
	pages := make([]int, 0, p.TotalPages)
	for i := 1; i <= p.TotalPages; i++ {
		pages = append(pages, i)
	}
	return pages
}
