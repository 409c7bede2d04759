package page

// PageBuilderOption is a functional option for configuring a Page.
type PageBuilderOption func(p *page)

// WithSections appends sections to the document. Sections keep the order given.
//
// Parameters:
//   - sections: the sections to add
//
// Returns:
//   - PageBuilderOption: option function to apply
func WithSections(sections ...Section) PageBuilderOption {
	return func(p *page) {
		p.sections = append(p.sections, sections...)
	}
}

// WithDocumentHeight fixes the document height instead of deriving it from the sections.
//
// Parameters:
//   - h: the document height in pixels
//
// Returns:
//   - PageBuilderOption: option function to apply
func WithDocumentHeight(h float32) PageBuilderOption {
	return func(p *page) {
		p.documentHeight = h
	}
}

// WithLocked sets the initial lock state. Pages start locked.
//
// Parameters:
//   - locked: the initial lock state
//
// Returns:
//   - PageBuilderOption: option function to apply
func WithLocked(locked bool) PageBuilderOption {
	return func(p *page) {
		p.locked = locked
	}
}

// WithScrollY sets the initial scroll offset.
func WithScrollY(y float32) PageBuilderOption {
	return func(p *page) {
		p.scrollY = y
	}
}
