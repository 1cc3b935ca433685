package workflow

import (
	"github.com/yildizm/ColorSeason/internal/season"
)

// OutfitPage is the visible window over the outfit list
type OutfitPage = PageResult[string]

// OutfitPanel is the result view's outfit state: filter, full list, page,
// loading flag, inline error and preview selection.
type OutfitPanel struct {
	gender   season.Gender
	images   []string
	page     int
	pageSize int
	loading  bool
	err      error
	preview  int // index into images, -1 when closed
}

// NewOutfitPanel creates an empty panel showing all genders
func NewOutfitPanel(pageSize int) *OutfitPanel {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &OutfitPanel{
		gender:   season.GenderAll,
		page:     1,
		pageSize: pageSize,
		preview:  -1,
	}
}

// Gender returns the active filter
func (p *OutfitPanel) Gender() season.Gender { return p.gender }

// Loading reports whether a fetch is outstanding
func (p *OutfitPanel) Loading() bool { return p.loading }

// Err returns the last fetch error, if any
func (p *OutfitPanel) Err() error { return p.err }

// Images returns the full outfit list
func (p *OutfitPanel) Images() []string { return p.images }

// Page returns the current window
func (p *OutfitPanel) Page() OutfitPage {
	return Paginate(p.images, p.page, p.pageSize)
}

// Reset clears the panel for a new result
func (p *OutfitPanel) Reset() {
	p.gender = season.GenderAll
	p.images = nil
	p.page = 1
	p.loading = false
	p.err = nil
	p.preview = -1
}

// SetGender changes the filter. It returns false when the filter is unchanged.
func (p *OutfitPanel) SetGender(g season.Gender) bool {
	if g == "" {
		g = season.GenderAll
	}
	if g == p.gender {
		return false
	}
	p.gender = g
	p.page = 1
	p.preview = -1
	return true
}

// beginFetch marks a request outstanding; the current list stays visible
func (p *OutfitPanel) beginFetch() {
	p.loading = true
	p.err = nil
}

// setImages replaces the list and returns to page 1
func (p *OutfitPanel) setImages(images []string) {
	if images == nil {
		images = []string{}
	}
	p.images = images
	p.page = 1
	p.preview = -1
	p.loading = false
	p.err = nil
}

// setError records a failed fetch; the previous list is cleared
func (p *OutfitPanel) setError(err error) {
	p.images = []string{}
	p.page = 1
	p.preview = -1
	p.loading = false
	p.err = err
}

// NextPage advances one page, clamped to the last page
func (p *OutfitPanel) NextPage() {
	if p.page < TotalPages(len(p.images), p.pageSize) {
		p.page++
		p.preview = -1
	}
}

// PrevPage goes back one page, clamped to the first page
func (p *OutfitPanel) PrevPage() {
	if p.page > 1 {
		p.page--
		p.preview = -1
	}
}

// Open selects the image at index i of the current page for preview
func (p *OutfitPanel) Open(i int) bool {
	abs := (p.page-1)*p.pageSize + i
	if i < 0 || i >= p.pageSize || abs >= len(p.images) {
		return false
	}
	p.preview = abs
	return true
}

// Close closes the preview
func (p *OutfitPanel) Close() {
	p.preview = -1
}

// Preview returns the previewed image URL and whether the preview is open
func (p *OutfitPanel) Preview() (string, bool) {
	if p.preview < 0 || p.preview >= len(p.images) {
		return "", false
	}
	return p.images[p.preview], true
}
