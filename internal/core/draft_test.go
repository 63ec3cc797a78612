package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraft_EditDoesNotTouchResult(t *testing.T) {
	result := ClassificationResult{
		Category:          CategoryProductive,
		SuggestedResponse: "Prezado, recebemos sua mensagem.",
	}
	d := NewDraft(result)
	assert.Equal(t, result.SuggestedResponse, d.Reply)
	assert.False(t, d.Edited())

	d.Edit("Olá! Respondo amanhã.")
	assert.True(t, d.Edited())
	assert.Equal(t, "Prezado, recebemos sua mensagem.", d.Result().SuggestedResponse)
	assert.Equal(t, "Prezado, recebemos sua mensagem.", result.SuggestedResponse)

	d.Reset()
	assert.Equal(t, result.SuggestedResponse, d.Reply)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, OutcomeOf(nil))
	assert.Equal(t, OutcomeCancelled, OutcomeOf(ErrCancelled))
	assert.Equal(t, OutcomeValidation, OutcomeOf(&ValidationError{Field: "content"}))
	assert.Equal(t, OutcomeFailure, OutcomeOf(&TransportFailure{StatusCode: 500}))
}

func TestTransportFailure_Error(t *testing.T) {
	err := &TransportFailure{StatusCode: 400, Detail: "Tipo de arquivo não suportado. Use .txt ou .pdf"}
	assert.Equal(t, "Tipo de arquivo não suportado. Use .txt ou .pdf (status 400)", err.Error())
	assert.Equal(t, GenericTransportMessage, (&TransportFailure{}).Message())
}
