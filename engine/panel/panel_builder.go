package panel

import "github.com/Carmen-Shannon/oxy-bloom/common"

// PanelBuilderOption is a functional option for configuring a Panel.
type PanelBuilderOption func(*panel)

// WithTitle sets the title drawn on the first row.
func WithTitle(title string) PanelBuilderOption {
	return func(p *panel) {
		p.title = title
	}
}

// WithSliderWidth sets the number of cells in the step slider. Values below 2 are ignored.
//
// Parameters:
//   - n: the slider width in cells
//
// Returns:
//   - PanelBuilderOption: option function to apply
func WithSliderWidth(n int) PanelBuilderOption {
	return func(p *panel) {
		if n >= 2 {
			p.sliderWidth = n
		}
	}
}

// WithState sets the scene flags drawn before the first SetState.
func WithState(s common.SceneState) PanelBuilderOption {
	return func(p *panel) {
		p.state = s
	}
}
