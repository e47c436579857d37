package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCustomer = domain.CustomerInfo{
	Name:    "Thandiwe Mwansa",
	Email:   "thandiwe@example.com",
	Phone:   "+260971234567",
	Address: "12 Kabulonga Rd",
	City:    "Lusaka",
}

func checkoutTestEnv(t *testing.T) (*testEnv, *CheckoutHandler) {
	t.Helper()
	env := newTestEnv(&stubSource{products: []domain.CatalogItem{
		{ID: "body-oil-1", Name: "Marula Glow Oil", Price: domain.Money{Currency: "ZMW", Amount: 180}, Stock: 5},
	}})
	seedLedger(env)
	return env, NewCheckoutHandler(env.sequencer())
}

func fillCart(t *testing.T, env *testEnv, sessionID string, quantity int) {
	t.Helper()
	request := httptest.NewRequest("POST", "/", nil)
	_, err := env.carts.Adjust(request.Context(), sessionID, "body-oil-1", quantity)
	require.NoError(t, err)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, sessionID string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = *bytes.NewReader(data)
	}
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", target, &body), sessionID)
	handler(recorder, request)
	return recorder
}

func decodeState(t *testing.T, recorder *httptest.ResponseRecorder) checkoutStateResponse {
	t.Helper()
	var state checkoutStateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&state))
	return state
}

func TestCheckout_NoSession(t *testing.T) {
	_, handler := checkoutTestEnv(t)

	recorder := httptest.NewRecorder()
	handler.GetState(recorder, httptest.NewRequest("GET", "/api/v1/checkout", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCheckout_InitialState(t *testing.T) {
	_, handler := checkoutTestEnv(t)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/api/v1/checkout", nil), "session-1")
	handler.GetState(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeState(t, recorder)
	assert.Equal(t, "CART", string(state.Step))
}

func TestBegin_EmptyCart(t *testing.T) {
	_, handler := checkoutTestEnv(t)

	recorder := postJSON(t, handler.Begin, "/api/v1/checkout/begin", "session-1", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestCheckout_FullFlow(t *testing.T) {
	env, handler := checkoutTestEnv(t)
	fillCart(t, env, "session-1", 2)

	recorder := postJSON(t, handler.Begin, "/api/v1/checkout/begin", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "DETAILS", string(decodeState(t, recorder).Step))

	recorder = postJSON(t, handler.SubmitDetails, "/api/v1/checkout/details", "session-1", testCustomer)
	require.Equal(t, http.StatusOK, recorder.Code)
	state := decodeState(t, recorder)
	assert.Equal(t, "PAYMENT", string(state.Step))
	assert.Equal(t, testCustomer, state.Customer)

	recorder = postJSON(t, handler.SelectPayment, "/api/v1/checkout/payment", "session-1",
		SelectPaymentRequestDTO{Method: domain.PaymentMTNMomo})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, domain.PaymentMTNMomo, decodeState(t, recorder).PaymentMethod)

	recorder = postJSON(t, handler.Complete, "/api/v1/checkout/complete", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var result struct {
		Completed bool         `json:"completed"`
		Order     domain.Order `json:"order"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.True(t, result.Completed)
	assert.Equal(t, 360.0, result.Order.TotalAmount)
	assert.Equal(t, "ZMW", result.Order.Currency)

	stock, err := env.ledger.Stock("body-oil-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stock)
}

func TestSubmitDetails_Incomplete(t *testing.T) {
	env, handler := checkoutTestEnv(t)
	fillCart(t, env, "session-1", 1)

	recorder := postJSON(t, handler.Begin, "/api/v1/checkout/begin", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	incomplete := testCustomer
	incomplete.City = ""
	recorder = postJSON(t, handler.SubmitDetails, "/api/v1/checkout/details", "session-1", incomplete)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "incomplete_details", resp.Code)
}

func TestSelectPayment_InvalidMethod(t *testing.T) {
	env, handler := checkoutTestEnv(t)
	fillCart(t, env, "session-1", 1)

	recorder := postJSON(t, handler.Begin, "/api/v1/checkout/begin", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = postJSON(t, handler.SubmitDetails, "/api/v1/checkout/details", "session-1", testCustomer)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(t, handler.SelectPayment, "/api/v1/checkout/payment", "session-1",
		SelectPaymentRequestDTO{Method: "cash"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_payment", resp.Code)
}

func TestSubmitDetails_OutOfOrder(t *testing.T) {
	_, handler := checkoutTestEnv(t)

	recorder := postJSON(t, handler.SubmitDetails, "/api/v1/checkout/details", "session-1", testCustomer)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "illegal_transition", resp.Code)
}

func TestComplete_EmptyCart_ReportsNotCompleted(t *testing.T) {
	_, handler := checkoutTestEnv(t)

	recorder := postJSON(t, handler.Complete, "/api/v1/checkout/complete", "session-1", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var result struct {
		Completed bool `json:"completed"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.False(t, result.Completed)
}

func TestBack_FromDetails(t *testing.T) {
	env, handler := checkoutTestEnv(t)
	fillCart(t, env, "session-1", 1)

	recorder := postJSON(t, handler.Begin, "/api/v1/checkout/begin", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = postJSON(t, handler.Back, "/api/v1/checkout/back", "session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "CART", string(decodeState(t, recorder).Step))
}
