package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalali/dalali-cli/internal/domain"
)

type recordedRequest struct {
	method      string
	path        string
	query       string
	auth        string
	requestID   string
	contentType string
	body        []byte
	form        map[string][]string
	files       map[string]string
}

// newTestClient spins up an httptest server that records each request and
// answers with the queued responses in order.
func newTestClient(t *testing.T, responses ...func(w http.ResponseWriter)) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	idx := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			requestID:   r.Header.Get("X-Request-ID"),
			contentType: r.Header.Get("Content-Type"),
		}
		if strings.HasPrefix(rec.contentType, "multipart/form-data") {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			rec.form = r.MultipartForm.Value
			rec.files = map[string]string{}
			for field, headers := range r.MultipartForm.File {
				for _, h := range headers {
					rec.files[field] = h.Filename
				}
			}
		} else if r.Body != nil {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			rec.body = data
		}
		requests = append(requests, rec)

		if idx < len(responses) {
			responses[idx](w)
			idx++
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL}), &requests
}

func respondJSON(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestRequestHeaders(t *testing.T) {
	client, requests := newTestClient(t, respondJSON(http.StatusOK, `[]`))
	client.SetToken("tok-123")

	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/users/", req.path)
	assert.Equal(t, "Bearer tok-123", req.auth)
	assert.NotEmpty(t, req.requestID, "every request carries an X-Request-ID")
}

func TestNoAuthHeaderWhenSignedOut(t *testing.T) {
	client, requests := newTestClient(t, respondJSON(http.StatusOK, `{"access":"abc"}`))

	token, err := client.Login(context.Background(), "asha", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	req := (*requests)[0]
	assert.Empty(t, req.auth)
	assert.Equal(t, "/api/auth/login/", req.path)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(req.body, &payload))
	assert.Equal(t, "asha", payload["username"])
	assert.Equal(t, "secret", payload["password"])
}

func TestLoginRejectsEmptyAccessToken(t *testing.T) {
	client, _ := newTestClient(t, respondJSON(http.StatusOK, `{}`))
	_, err := client.Login(context.Background(), "asha", "secret")
	require.Error(t, err)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, respondJSON(http.StatusUnauthorized, `{"detail":"Token expired"}`))
	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token expired", apiErr.Detail)
}

func TestErrorDetailFallsBackToRawBody(t *testing.T) {
	client, _ := newTestClient(t, respondJSON(http.StatusBadRequest, `something broke`))
	err := client.PurchaseProperty(context.Background(), 4)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "something broke", apiErr.Detail)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestListPropertiesStatusFilter(t *testing.T) {
	client, requests := newTestClient(t,
		respondJSON(http.StatusOK, `[]`),
		respondJSON(http.StatusOK, `[]`),
	)

	_, err := client.ListProperties(context.Background(), domain.PropertyApproved)
	require.NoError(t, err)
	_, err = client.ListProperties(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, *requests, 2)
	assert.Equal(t, "status=approved", (*requests)[0].query)
	assert.Empty(t, (*requests)[1].query)
}

func TestPurchaseAndPaymentEndpoints(t *testing.T) {
	client, requests := newTestClient(t,
		respondJSON(http.StatusCreated, `{}`),
		respondJSON(http.StatusOK, `{}`),
	)

	require.NoError(t, client.PurchaseProperty(context.Background(), 7))
	require.NoError(t, client.ProcessPayment(context.Background(), 7, domain.PayMobileMoney))

	require.Len(t, *requests, 2)
	assert.Equal(t, "/api/properties/7/purchase/", (*requests)[0].path)
	assert.Equal(t, http.MethodPost, (*requests)[0].method)

	payment := (*requests)[1]
	assert.Equal(t, "/api/properties/7/process_payment/", payment.path)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(payment.body, &payload))
	assert.Equal(t, "mobile_money", payload["payment_method"])
}

func TestProcessPaymentRejectsUnknownMethodWithoutRequest(t *testing.T) {
	client, requests := newTestClient(t)
	err := client.ProcessPayment(context.Background(), 7, "barter")
	require.Error(t, err)
	assert.Empty(t, *requests, "invalid method must never reach the API")
}

func TestCreatePropertyMultipart(t *testing.T) {
	client, requests := newTestClient(t, respondJSON(http.StatusCreated, `{}`))

	form := PropertyForm{
		Title:     "Sunset Villa",
		Address:   "12 Shore Rd",
		Price:     "250000.00",
		Bedrooms:  3,
		Bathrooms: 2,
		Images: []Attachment{
			{Field: "image1", FileName: "front.jpg", Reader: strings.NewReader("jpegbytes")},
		},
	}
	require.NoError(t, client.CreateProperty(context.Background(), form))

	req := (*requests)[0]
	assert.Equal(t, "/api/properties/", req.path)
	assert.True(t, strings.HasPrefix(req.contentType, "multipart/form-data"))
	assert.Equal(t, []string{"Sunset Villa"}, req.form["title"])
	assert.Equal(t, []string{"250000.00"}, req.form["price"])
	assert.Equal(t, []string{"3"}, req.form["bedrooms"])
	// Blank description never becomes an empty part.
	_, hasDescription := req.form["description"]
	assert.False(t, hasDescription)
	assert.Equal(t, "front.jpg", req.files["image1"])
}

func TestUpdateUserMultipartPatch(t *testing.T) {
	client, requests := newTestClient(t, respondJSON(http.StatusOK, `{}`))

	form := UserForm{
		Username: "asha",
		Email:    "asha@example.com",
		Role:     domain.RoleSeller,
	}
	require.NoError(t, client.UpdateUser(context.Background(), 9, form))

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "/api/users/9/", req.path)
	assert.Equal(t, []string{"seller"}, req.form["role"])
	assert.Empty(t, req.files)
}

func TestTransactionTotalsDecoding(t *testing.T) {
	client, requests := newTestClient(t, respondJSON(http.StatusOK, `{"total_count":4,"total_amount":"812500.00"}`))

	totals, err := client.TransactionTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/transactions/total/", (*requests)[0].path)
	assert.Equal(t, 4, totals.TotalCount)
	assert.Equal(t, domain.Money("812500.00"), totals.TotalAmount)
}

func TestResolveMediaURL(t *testing.T) {
	client := New(Config{BaseURL: "http://api.example.com/"})

	assert.Equal(t, "", client.ResolveMediaURL(""))
	assert.Equal(t, "http://api.example.com/media/a.jpg", client.ResolveMediaURL("/media/a.jpg"))
	assert.Equal(t, "http://api.example.com/media/b.jpg", client.ResolveMediaURL("media/b.jpg"))
	assert.Equal(t, "https://cdn.example.com/c.jpg", client.ResolveMediaURL("https://cdn.example.com/c.jpg"))
}
