package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	c "passreset/internal/core/domain/common"
	"passreset/internal/core/domain/verification"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
)

const sendTemplatedEmailResponse = `<SendTemplatedEmailResponse xmlns="http://ses.amazonaws.com/doc/2010-12-01/">
  <SendTemplatedEmailResult><MessageId>test-message-id</MessageId></SendTemplatedEmailResult>
  <ResponseMetadata><RequestId>test-request-id</RequestId></ResponseMetadata>
</SendTemplatedEmailResponse>`

func newTestSender(t *testing.T, handler http.HandlerFunc) *EmailSender {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := ses.New(ses.Options{
		Region:           "eu-central-1",
		Credentials:      aws.AnonymousCredentials{},
		EndpointResolver: ses.EndpointResolverFromURL(server.URL),
	})
	baseUrl, err := url.Parse("https://example.com/password-reset")
	require.NoError(t, err)
	return newEmailSender(client, "noreply@example.com", "password-reset", *baseUrl)
}

func TestSendToken(t *testing.T) {
	var form url.Values
	sender := newTestSender(t, func(rw http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		rw.Header().Set("Content-Type", "text/xml")
		rw.Write([]byte(sendTemplatedEmailResponse))
	})
	expiresAt := time.Date(2020, 1, 1, 13, 0, 0, 0, time.UTC)

	err := sender.SendToken(
		context.Background(),
		c.Email("alice@example.com"),
		verification.Token("T1"),
		expiresAt,
	)

	require.NoError(t, err)
	require.Equal(t, "SendTemplatedEmail", form.Get("Action"))
	require.Equal(t, "noreply@example.com", form.Get("Source"))
	require.Equal(t, "password-reset", form.Get("Template"))
	require.Equal(t, "alice@example.com", form.Get("Destination.ToAddresses.member.1"))

	var params passwordResetTemplateParams
	require.NoError(t, json.Unmarshal([]byte(form.Get("TemplateData")), &params))
	require.Equal(t, "https://example.com/password-reset/T1", params.PasswordResetUrl)
	require.Equal(t, "Wed, 01 Jan 2020 13:00:00 UTC", params.ExpiresAt)
}

func TestSendTokenError(t *testing.T) {
	sender := newTestSender(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte(`<ErrorResponse><Error><Type>Sender</Type><Code>MessageRejected</Code><Message>rejected</Message></Error></ErrorResponse>`))
	})

	err := sender.SendToken(
		context.Background(),
		c.Email("alice@example.com"),
		verification.Token("T1"),
		time.Now(),
	)

	require.Error(t, err)
}
