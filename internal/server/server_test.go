package server_test

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoniacou/sepa-king/internal/server"
)

func testRouter() http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return server.New(log, nil).Router()
}

func creditTransferBody() []byte {
	return []byte(fmt.Sprintf(`{
		"account": {
			"name": "Schuldner GmbH",
			"iban": "DE87200500001234567890",
			"bic": "BANKDEFFXXX",
			"country_code": "DE",
			"currency": "EUR"
		},
		"transactions": [{
			"name": "Telekomiker AG",
			"iban": "DE89370400440532013000",
			"amount": "100.00",
			"currency": "EUR",
			"reference": "REF1",
			"requested_date": %q
		}]
	}`, time.Now().AddDate(0, 0, 1).Format("2006-01-02")))
}

func TestServer_RenderCreditTransfer(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/credit-transfers", bytes.NewReader(creditTransferBody()))

	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<CstmrCdtTrfInitn>")
}

func TestServer_InvalidBodyRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/credit-transfers", bytes.NewReader([]byte("{")))

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ValidationFailureRejected(t *testing.T) {
	body := []byte(`{
		"account": {"name": "X", "iban": "bad", "country_code": "DE", "currency": "EUR"},
		"transactions": []
	}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/direct-debits", bytes.NewReader(body))

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestServer_IncompatibleSchemaRejected(t *testing.T) {
	body := bytes.Replace(creditTransferBody(),
		[]byte(`"account": {`),
		[]byte(`"schema": "pain.001.001.03.ch.02", "account": {`), 1)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/credit-transfers", bytes.NewReader(body))

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
