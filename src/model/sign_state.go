package model

// SignState maps an order id to the sign (-1, 0, +1) of its net P&L as of the
// last evaluation. A missing entry reads as 0.
type SignState map[string]int

func (s SignState) Prior(orderID string) int {
	if s == nil {
		return 0
	}
	return s[orderID]
}

// Clone returns an independent copy so a cycle can mutate its working map
// without touching the loaded one.
func (s SignState) Clone() SignState {
	out := make(SignState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
