package calculator

import "keypad-calc/internal/engine"

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"` // "7", ".", "+", "×", "=", "clear", "backspace", "sign", "percent"
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Result     string  `json:"result"`
	Value      float64 `json:"value"`
}

// Snapshot is the rendered state of one session, returned by every session endpoint.
type Snapshot struct {
	ID         string `json:"id"`
	Display    string `json:"display"`
	History    string `json:"history"`
	Mode       string `json:"mode"`
	Expression string `json:"expression"`
	Result     string `json:"result,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

func snapshot(id string, c *engine.Calculator) Snapshot {
	snap := Snapshot{
		ID:         id,
		Display:    c.DisplayText(),
		History:    c.HistoryText(),
		Mode:       c.Mode().String(),
		Expression: c.Expression().String(),
	}
	if c.Mode() == engine.ModeResult {
		snap.Result, _ = c.LastResult()
	}
	if err := c.Err(); err != nil {
		snap.ErrorKind = errorKind(err)
	}
	return snap
}
