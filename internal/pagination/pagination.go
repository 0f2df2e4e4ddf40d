// Package pagination splits ordered record sets into fixed-size pages.
package pagination

// Page describes one window over a record set of Total items.
type Page struct {
	Number  int
	PerPage int
	Total   int64
}

// New returns the page for a requested number. Numbers below 1 select the
// first page.
func New(number, perPage int, total int64) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Page{Number: number, PerPage: perPage, Total: total}
}

// Offset is the number of records preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the maximum number of records on this page.
func (p Page) Limit() int {
	return p.PerPage
}

// TotalPages is at least 1 so an empty set still renders one page.
func (p Page) TotalPages() int {
	if p.Total <= 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Paginated reports whether the set needs navigation controls.
func (p Page) Paginated() bool {
	return p.TotalPages() > 1
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages()
}

func (p Page) Prev() int {
	return p.Number - 1
}

func (p Page) Next() int {
	return p.Number + 1
}

// Numbers lists every page number, for rendering links.
func (p Page) Numbers() []int {
	n := p.TotalPages()
	numbers := make([]int, n)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}
