package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMSSender_NilWhenUnconfigured(t *testing.T) {
	tests := []struct {
		name                             string
		base, account, token, fromNumber string
	}{
		{"all empty", "", "", "", ""},
		{"missing base URL", "", "AC123", "tok", "+15550001111"},
		{"missing account", "https://gw.example.com", "", "tok", "+15550001111"},
		{"missing token", "https://gw.example.com", "AC123", "", "+15550001111"},
		{"missing from number", "https://gw.example.com", "AC123", "tok", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSMSSender(tt.base, tt.account, tt.token, tt.fromNumber)
			assert.Nil(t, s)
			assert.False(t, s.IsConfigured())
		})
	}
}

func TestSMSSender_Send(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, "AC123", "secret", "+15550001111")
	require.True(t, s.IsConfigured())

	err := s.Send(context.Background(), "+254700000001", "Farm alert: test")
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "+254700000001", gotTo)
	assert.Equal(t, "+15550001111", gotFrom)
	assert.Equal(t, "Farm alert: test", gotBody)
}

func TestSMSSender_SendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, "AC123", "secret", "+15550001111")

	err := s.Send(context.Background(), "bogus", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "not a valid phone number")
}

func TestSMSSender_SendErrorEnvelopeOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sid":"SM2","status":"failed","error_code":30007,"error_message":"Carrier filtered"}`))
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, "AC123", "secret", "+15550001111")

	err := s.Send(context.Background(), "+254700000001", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "30007")
	assert.Contains(t, err.Error(), "Carrier filtered")
}

func TestSMSSender_SendHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	s := NewSMSSender(srv.URL, "AC123", "secret", "+15550001111")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "+254700000001", "hi")
	assert.Error(t, err)
}
