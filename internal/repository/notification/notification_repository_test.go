package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pobyzaarif/goshortcute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailjetSendEmail(t *testing.T) {
	t.Run("posts message with basic auth", func(t *testing.T) {
		var got payloadSendEmail
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3.1/send", r.URL.Path)
			assert.Equal(t, "Basic "+goshortcute.StringtoBase64Encode("key:secret"), r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		repo := NewMailjetRepository(MailjetConfig{
			MailjetBaseURL:           srv.URL,
			MailjetBasicAuthUsername: "key",
			MailjetBasicAuthPassword: "secret",
			MailjetSenderEmail:       "shop@example.com",
			MailjetSenderName:        "Shop",
		})

		err := repo.SendEmail(context.Background(), "Ann", "ann@example.com", "Hello", "body")
		require.NoError(t, err)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "shop@example.com", got.Messages[0].From.Email)
		assert.Equal(t, "ann@example.com", got.Messages[0].To[0].Email)
		assert.Equal(t, "Hello", got.Messages[0].Subject)
	})

	t.Run("non 2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"ErrorMessage":"bad key"}`))
		}))
		defer srv.Close()

		repo := NewMailjetRepository(MailjetConfig{MailjetBaseURL: srv.URL})
		err := repo.SendEmail(context.Background(), "Ann", "ann@example.com", "Hello", "body")
		assert.Error(t, err)
	})
}

func TestLogRepositoryNeverFails(t *testing.T) {
	assert.NoError(t, NewLogRepository().SendEmail(context.Background(), "Ann", "ann@example.com", "s", "m"))
}
