package apierror

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain string", `Service unavailable`, "Service unavailable"},
		{"json string", `"Insufficient balance"`, "Insufficient balance"},
		{"double encoded object", `"{\"detail\": \"Token expired\"}"`, "Token expired"},
		{"detail", `{"detail": "Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"field list", `{"amount": ["Ensure this value is greater than 0."]}`, "amount: Ensure this value is greater than 0."},
		{"field string", `{"recipient_phone": "Invalid phone number"}`, "recipient_phone: Invalid phone number"},
		{"non field errors unprefixed", `{"non_field_errors": ["Invalid credentials"]}`, "Invalid credentials"},
		{
			"multiple fields are multi-line",
			`{"phone": ["Required"], "amount": ["Too small", "Must be a multiple of 5"], "non_field_errors": ["Check the form"]}`,
			"Check the form\namount: Too small Must be a multiple of 5\nphone: Required",
		},
		{"array", `["first problem", "second problem"]`, "first problem\nsecond problem"},
		{"nested", `{"recipient": {"phone": ["Invalid"]}}`, "recipient: phone: Invalid"},
		{"message key", `{"message": "Platform disabled", "success": false}`, "Platform disabled"},
		{"empty body", ``, FallbackMessage},
		{"empty object", `{}`, FallbackMessage},
		{"null", `null`, FallbackMessage},
		{"number", `42`, FallbackMessage},
		{"html page", `<!DOCTYPE html><html><body>Bad gateway</body></html>`, FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMessage([]byte(tt.body))
			assert.NotEmpty(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValueTypedInputs(t *testing.T) {
	assert.Equal(t, "amount: Too large", FormatValue(map[string][]string{"amount": {"Too large"}}))
	assert.Equal(t, "a\nb", FormatValue([]string{"a", "b"}))
	assert.Equal(t, "Token expired", FormatValue([]byte(`{"detail":"Token expired"}`)))
	assert.Equal(t, FallbackMessage, FormatValue(nil))
	assert.Equal(t, FallbackMessage, FormatValue(map[string]any{"detail": ""}))
}

func TestFormatMessageStopsDecodingDeepStrings(t *testing.T) {
	// a string that keeps decoding to another quoted string must terminate
	body := `"\"\\\"\\\\\\\"deep\\\\\\\"\\\"\""`
	got := FormatMessage([]byte(body))
	assert.NotEmpty(t, got)
}

func TestFromResponse(t *testing.T) {
	err := FromResponse(http.StatusBadRequest, []byte(`{"amount": ["Required"]}`))
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "amount: Required", err.Error())

	err = FromResponse(http.StatusInternalServerError, []byte(`oops`))
	assert.Equal(t, KindHTTP, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestFromTransport(t *testing.T) {
	t.Run("deadline", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		<-ctx.Done()
		err := FromTransport(ctx, errors.New("Get \"http://x\": context deadline exceeded"))
		assert.Equal(t, KindTimeout, err.Kind)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := FromTransport(ctx, context.Canceled)
		assert.Equal(t, KindCanceled, err.Kind)
	})

	t.Run("network", func(t *testing.T) {
		err := FromTransport(context.Background(), errors.New("connection refused"))
		assert.Equal(t, KindNetwork, err.Kind)
		assert.NotEmpty(t, err.Message)
	})
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := AuthExpired(errors.New("refresh rejected"))
	wrapped := errors.Wrap(base, "refresh timer")

	assert.Equal(t, KindAuthExpired, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindAuthExpired))
	assert.Equal(t, base.Message, Message(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))

	var target *Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "refresh rejected", errors.Cause(target.Cause).Error())
}
