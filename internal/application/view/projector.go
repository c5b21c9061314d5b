package view

import (
	"fmt"

	"github.com/openfx/currency-widget/internal/domain/entity"
)

// Shown in the result slot while no conversion has completed
const resultPlaceholder = "--"

// Rates are always displayed with four fractional digits, independent of the
// configured amount precision.
const rateDisplayPlaces = 4

// View is the fully rendered widget output: every field the presentation
// layer needs, derived from session state alone.
type View struct {
	Loading       bool     `json:"loading"`
	SubmitEnabled bool     `json:"submit_enabled"`
	SubmitLabel   string   `json:"submit_label"`
	AmountText    string   `json:"amount_text"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	ErrorVisible  bool     `json:"error_visible"`
	ErrorText     string   `json:"error_text"`
	ResultText    string   `json:"result_text"`
	RateText      string   `json:"rate_text"`
	Currencies    []string `json:"currencies"`
}

// Projector translates session state into a View. It holds no business logic
// and is idempotent: projecting the same state twice yields the same output.
type Projector struct {
	decimalPlaces int
}

// NewProjector creates a projector for the configured amount precision
func NewProjector(decimalPlaces int) *Projector {
	return &Projector{decimalPlaces: decimalPlaces}
}

// Project renders the state. The currency option list comes from the catalog
// store rather than the session state, since the catalog is shared.
func (p *Projector) Project(state entity.UIState, currencies []string) View {
	v := View{
		Loading:       state.Phase == entity.PhaseLoading,
		SubmitEnabled: state.Phase != entity.PhaseLoading && state.CatalogLoaded,
		SubmitLabel:   "Convert",
		AmountText:    state.AmountText,
		From:          state.From,
		To:            state.To,
		ErrorVisible:  state.ErrorMessage != "",
		ErrorText:     state.ErrorMessage,
		ResultText:    resultPlaceholder,
		Currencies:    currencies,
	}

	if v.Loading {
		v.SubmitLabel = "Converting..."
	}

	if state.Result != nil {
		v.ResultText = state.Result.Converted.StringFixed(int32(p.decimalPlaces))
		v.RateText = fmt.Sprintf("1 %s = %s %s",
			state.Result.From,
			state.Result.Rate.StringFixed(rateDisplayPlaces),
			state.Result.To)
	}

	return v
}
