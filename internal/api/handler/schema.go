package handler

// messageResponse is the envelope for every non-list reply, errors included.
type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
