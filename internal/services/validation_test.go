package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ruralpay/cardledger/internal/errors"
)

type cardForm struct {
	CardType string `json:"card_type" validate:"required,alphanum"`
	Owner    string `json:"owner" validate:"required,min=3"`
	Limit    int    `json:"limit" validate:"gt=0"`
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid struct", func(t *testing.T) {
		err := vh.ValidateStruct(&cardForm{CardType: "Gold", Owner: "alice", Limit: 10})
		assert.NoError(t, err)
	})

	t.Run("every failing field is reported by json name", func(t *testing.T) {
		err := vh.ValidateStruct(&cardForm{Owner: "al"})
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		assert.Len(t, validationErrors, 3)
		assert.Equal(t, "card_type", validationErrors[0].Field())
	})
}

func TestValidationHelper_Validate(t *testing.T) {
	vh := NewValidationHelper()

	tests := []struct {
		name    string
		input   any
		field   string
		message string
	}{
		{"short username", &RegisterInput{Username: "al", Password: "password1"}, "username", "must be at least 3 characters"},
		{"missing password", &RegisterInput{Username: "alice"}, "password", "is required"},
		{"symbols in type", &cardForm{CardType: "Gold!", Owner: "alice", Limit: 1}, "card_type", "must contain only letters and digits"},
		{"zero limit", &cardForm{CardType: "Gold", Owner: "alice"}, "limit", "must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vh.Validate(tt.input)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}

	assert.NoError(t, vh.Validate(&RegisterInput{Username: "alice", Password: "password1"}))
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without an error value", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Empty(t, response.Code)
		assert.Nil(t, response.Details)
	})

	t.Run("validator errors list every field", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := NewValidationHelper().ValidateStruct(&RegisterInput{})

		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, apperrors.CodeValidation, response.Code)
		assert.Contains(t, response.Details, "username")
		assert.Contains(t, response.Details, "password")
	})

	t.Run("domain validation error keeps its message", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, apperrors.NewValidationError("amount", "must be greater than zero"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "must be greater than zero", response.Details["amount"])
	})

	t.Run("domain errors carry their code", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, apperrors.ErrInsufficientFunds.Error(), http.StatusConflict, apperrors.ErrInsufficientFunds)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, apperrors.CodeInsufficient, response.Code)
		assert.Empty(t, response.Details)
	})
}
