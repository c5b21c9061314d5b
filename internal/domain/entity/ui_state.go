package entity

// Phase is the workflow's position in its Idle → Loading → Idle cycle. The
// terminal Success/Error outcomes are carried by Result and ErrorMessage
// rather than by distinct phases, so the machine is always ready for the
// next action once a run finishes.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
)

// UIState is the widget's entire session state. It lives in memory only and
// is never persisted; the projector renders it, the workflow mutates it.
type UIState struct {
	Phase         Phase
	AmountText    string
	From          string
	To            string
	ErrorMessage  string
	Result        *ConversionResult
	CatalogLoaded bool
}
