package handlers

import (
	"strconv"
)

const (
	previousLabel   = "&laquo; Previous"
	nextLabel       = "Next &raquo;"
	linksOnEachSide = 3
)

type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Paginator is the length-aware page body returned by list endpoints.
type Paginator struct {
	CurrentPage  int         `json:"current_page"`
	Data         interface{} `json:"data"`
	FirstPageURL string      `json:"first_page_url"`
	From         *int        `json:"from"`
	LastPage     int         `json:"last_page"`
	LastPageURL  string      `json:"last_page_url"`
	Links        []PageLink  `json:"links"`
	NextPageURL  *string     `json:"next_page_url"`
	Path         string      `json:"path"`
	PerPage      int         `json:"per_page"`
	PrevPageURL  *string     `json:"prev_page_url"`
	To           *int        `json:"to"`
	Total        int64       `json:"total"`
}

func NewPaginator(data interface{}, count int, total int64, page, perPage int, path string) Paginator {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	p := Paginator{
		CurrentPage:  page,
		Data:         data,
		FirstPageURL: pageURL(path, 1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From, p.To = &from, &to
	}
	if page > 1 {
		prev := pageURL(path, page-1)
		p.PrevPageURL = &prev
	}
	if lastPage > page {
		next := pageURL(path, page+1)
		p.NextPageURL = &next
	}

	p.Links = append(p.Links, PageLink{URL: p.PrevPageURL, Label: previousLabel})
	for _, section := range pageWindow(page, lastPage) {
		if section == nil {
			p.Links = append(p.Links, PageLink{Label: "..."})
			continue
		}
		for _, n := range section {
			u := pageURL(path, n)
			p.Links = append(p.Links, PageLink{URL: &u, Label: strconv.Itoa(n), Active: n == page})
		}
	}
	p.Links = append(p.Links, PageLink{URL: p.NextPageURL, Label: nextLabel})

	return p
}

func pageURL(path string, page int) string {
	return path + "?page=" + strconv.Itoa(page)
}

// pageWindow returns the page numbers to link, with a nil section where a
// gap is elided. Short listings show every page.
func pageWindow(current, last int) [][]int {
	if last < linksOnEachSide*2+8 {
		return [][]int{pageRange(1, last)}
	}

	window := linksOnEachSide + 4
	switch {
	case current <= window:
		return [][]int{pageRange(1, window+linksOnEachSide), nil, pageRange(last-1, last)}
	case current > last-window:
		return [][]int{pageRange(1, 2), nil, pageRange(last-(window+linksOnEachSide-1), last)}
	default:
		return [][]int{
			pageRange(1, 2),
			nil,
			pageRange(current-linksOnEachSide, current+linksOnEachSide),
			nil,
			pageRange(last-1, last),
		}
	}
}

func pageRange(from, to int) []int {
	pages := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		pages = append(pages, n)
	}
	return pages
}
