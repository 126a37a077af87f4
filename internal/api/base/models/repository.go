// Package models chứa các kiểu dùng chung cho layer base (kết quả phân trang).
package models

// PaginateResult đại diện cho kết quả phân trang
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`           // Trang hiện tại
	Limit     int64 `json:"limit" bson:"limit"`         // Số mục trên mỗi trang
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // Số mục trong trang hiện tại
	Items     []T   `json:"items" bson:"items"`
	Total     int64 `json:"total" bson:"total"`         // Tổng số mục
	TotalPage int64 `json:"totalPage" bson:"totalPage"` // Tổng số trang
}

// NewPaginateResult tính TotalPage và ItemCount từ dữ liệu đã truy vấn
func NewPaginateResult[T any](items []T, page, limit, total int64) *PaginateResult[T] {
	if items == nil {
		items = []T{}
	}
	var totalPage int64
	if total > 0 && limit > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return &PaginateResult[T]{
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Items:     items,
		Total:     total,
		TotalPage: totalPage,
	}
}
