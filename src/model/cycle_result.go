package model

import "encoding/json"

const (
	NoteNoOrders      = "no orders"
	NoteNoPrices      = "no prices"
	NoteNoSubscribers = "no subscribers"
)

// CycleResult is the body returned by the scheduled entry point. A finished
// cycle carries Assets and Pushes; an early exit carries only a Note; a
// failed cycle carries Error.
type CycleResult struct {
	OK     bool
	Note   string
	Assets []string
	Pushes int
	Error  string
}

func (r CycleResult) MarshalJSON() ([]byte, error) {
	switch {
	case !r.OK:
		return json.Marshal(struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}{false, r.Error})
	case r.Note != "":
		return json.Marshal(struct {
			OK   bool   `json:"ok"`
			Note string `json:"note"`
		}{true, r.Note})
	default:
		assets := r.Assets
		if assets == nil {
			assets = []string{}
		}
		return json.Marshal(struct {
			OK     bool     `json:"ok"`
			Assets []string `json:"assets"`
			Pushes int      `json:"pushes"`
		}{true, assets, r.Pushes})
	}
}
