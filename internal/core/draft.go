package core

// Draft is the user's editable reply. It is seeded from the suggested
// response but never writes back into the result it came from.
type Draft struct {
	result ClassificationResult
	Reply  string
}

// NewDraft seeds a draft from a classification result
func NewDraft(result ClassificationResult) *Draft {
	return &Draft{
		result: result,
		Reply:  result.SuggestedResponse,
	}
}

// Result returns the immutable result the draft was seeded from
func (d *Draft) Result() ClassificationResult {
	return d.result
}

// Edit replaces the draft text
func (d *Draft) Edit(reply string) {
	d.Reply = reply
}

// Reset discards edits and restores the suggested response
func (d *Draft) Reset() {
	d.Reply = d.result.SuggestedResponse
}

// Edited reports whether the draft differs from the suggestion
func (d *Draft) Edited() bool {
	return d.Reply != d.result.SuggestedResponse
}
