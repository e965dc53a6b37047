package book

import "bookrent/model"

// ListResp wraps a page of books.
// swagger:model BookListResp
type ListResp struct {
	Data []model.Book `json:"data"`
}
