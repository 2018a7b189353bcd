// README: Twilio Messages REST sink for real outbound delivery.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

type TwilioSink struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewTwilioSink(accountSID, authToken, fromNumber string) *TwilioSink {
	return &TwilioSink{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioSink) Send(ctx context.Context, to, body string) error {
	form := url.Values{
		"To":   {to},
		"From": {s.fromNumber},
		"Body": {body},
	}
	endpoint := fmt.Sprintf(twilioMessagesURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("twilio send: unexpected status %d", resp.StatusCode)
	}
	return nil
}
