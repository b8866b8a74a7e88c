package models

// Pageable is a zero-based page request.
type Pageable struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is the result envelope of a paginated query.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a Page from one slice of content and the total row count.
func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             p.Size,
		Number:           p.Page,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[T, U any](in Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(in.Content))
	for i, v := range in.Content {
		out[i] = fn(v)
	}
	return Page[U]{
		Content:          out,
		TotalElements:    in.TotalElements,
		TotalPages:       in.TotalPages,
		Size:             in.Size,
		Number:           in.Number,
		NumberOfElements: in.NumberOfElements,
		First:            in.First,
		Last:             in.Last,
		Empty:            in.Empty,
	}
}
