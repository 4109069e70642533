// Package mailing delivers composed digest messages through AWS SES v2
// and renders the optional HTML part of the digest.
package mailing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/savora/recipedigest/internal/config"
	"github.com/savora/recipedigest/internal/domain"
	"github.com/savora/recipedigest/internal/pkg/logger"
)

// sesAPI is the slice of the SES v2 client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender implements digest.Transport over AWS SES v2. It reports
// delivery failures to the caller; retry and failure-isolation policy
// belong to the dispatcher.
type SESSender struct {
	client    sesAPI
	fromName  string
	fromEmail string
}

// NewSESSender creates an SES transport with static credentials.
func NewSESSender(ctx context.Context, cfg appconfig.SESConfig, fromName, fromEmail string) (*SESSender, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESSender{
		client:    sesv2.NewFromConfig(awsCfg),
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// Send delivers one digest message. The plain body is always present;
// the HTML part is attached when the message carries one.
func (s *SESSender) Send(ctx context.Context, msg *domain.DigestMessage) error {
	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.RecipientEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", logger.RedactEmail(msg.RecipientEmail), err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	logger.Debug("digest delivered", "recipient", msg.RecipientEmail, "message_id", messageID)
	return nil
}
