package mailing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/savora/recipedigest/internal/domain"
)

// fakeSES captures SendEmail inputs and can simulate provider rejection.
type fakeSES struct {
	lastInput *sesv2.SendEmailInput
	err       error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	sender := &SESSender{client: fake, fromName: "Savora", fromEmail: "digest@savora.example"}

	msg := &domain.DigestMessage{
		RecipientEmail: "alice@example.com",
		Subject:        "Your daily recipe digest",
		Body:           "1 ) Your Pasta recipe got 1 like\n",
	}

	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	input := fake.lastInput
	if input == nil {
		t.Fatal("SendEmail was not called")
	}
	if got := input.Destination.ToAddresses; len(got) != 1 || got[0] != "alice@example.com" {
		t.Errorf("ToAddresses = %v", got)
	}
	if got := aws.ToString(input.FromEmailAddress); got != "Savora <digest@savora.example>" {
		t.Errorf("FromEmailAddress = %q", got)
	}
	if got := aws.ToString(input.Content.Simple.Subject.Data); got != "Your daily recipe digest" {
		t.Errorf("Subject = %q", got)
	}
	if got := aws.ToString(input.Content.Simple.Body.Text.Data); got != msg.Body {
		t.Errorf("Text body = %q, want the composed plain body", got)
	}
	if input.Content.Simple.Body.Html != nil {
		t.Error("HTML part attached for a plain-only message")
	}
}

func TestSESSender_SendWithHTML(t *testing.T) {
	fake := &fakeSES{}
	sender := &SESSender{client: fake, fromName: "Savora", fromEmail: "digest@savora.example"}

	msg := &domain.DigestMessage{
		RecipientEmail: "alice@example.com",
		Subject:        "Your daily recipe digest",
		Body:           "You have not posted any recipes yet.",
		HTMLBody:       "<p>You have not posted any recipes yet.</p>",
	}

	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if fake.lastInput.Content.Simple.Body.Html == nil {
		t.Fatal("HTML part missing")
	}
	if got := aws.ToString(fake.lastInput.Content.Simple.Body.Html.Data); got != msg.HTMLBody {
		t.Errorf("HTML body = %q", got)
	}
	// Plain body must survive alongside the HTML part
	if got := aws.ToString(fake.lastInput.Content.Simple.Body.Text.Data); got != msg.Body {
		t.Errorf("Text body = %q", got)
	}
}

func TestSESSender_SendFailure(t *testing.T) {
	fake := &fakeSES{err: errors.New("MessageRejected")}
	sender := &SESSender{client: fake, fromName: "Savora", fromEmail: "digest@savora.example"}

	err := sender.Send(context.Background(), &domain.DigestMessage{
		RecipientEmail: "bounce@example.com",
		Subject:        "Your daily recipe digest",
		Body:           "You have not posted any recipes yet.",
	})
	if err == nil {
		t.Fatal("Send() expected error on provider rejection")
	}
	if strings.Contains(err.Error(), "bounce@example.com") {
		t.Errorf("error leaks the raw recipient address: %v", err)
	}
}
