package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Ananth-NQI/kilimo-smart/internal/config"
	"github.com/Ananth-NQI/kilimo-smart/internal/logx"
	"github.com/Ananth-NQI/kilimo-smart/internal/utils"
)

// SendResult reports the outcome of one outbound message.
type SendResult struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
}

// Messenger delivers replies out of band.
type Messenger interface {
	Send(ctx context.Context, to, body string) SendResult
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

var _ Messenger = (*SMSService)(nil)

// SMSService sends SMS through Twilio.
type SMSService struct {
	api           messageCreator
	from          string
	defaultPrefix string
}

// NewSMSService creates a new Twilio SMS service instance
func NewSMSService(cfg config.TwilioConfig) (*SMSService, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.SMSFrom == "" {
		return nil, fmt.Errorf("%w: twilio account sid, auth token and sender are required", config.ErrMissingCredentials)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return newSMSService(client.Api, cfg.SMSFrom, cfg.DefaultPrefix), nil
}

func newSMSService(api messageCreator, from, defaultPrefix string) *SMSService {
	if defaultPrefix == "" {
		defaultPrefix = utils.DefaultCountryPrefix
	}
	return &SMSService{
		api:           api,
		from:          from,
		defaultPrefix: defaultPrefix,
	}
}

// Send sends body to the recipient. Failures are logged and reported in
// the result, never returned as errors.
func (s *SMSService) Send(ctx context.Context, to, body string) SendResult {
	logger := logx.FromContext(ctx)
	phone := utils.NormalizePhone(to, s.defaultPrefix)

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(phone)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		logger.Error().Err(err).Str("to", phone).Msg("sms sending failed")
		return SendResult{Success: false, Detail: err.Error()}
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		detail := fmt.Sprintf("twilio error %d", *resp.ErrorCode)
		if resp.ErrorMessage != nil {
			detail += ": " + *resp.ErrorMessage
		}
		logger.Error().Str("to", phone).Str("detail", detail).Msg("sms rejected")
		return SendResult{Success: false, Detail: detail}
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	logger.Info().Str("to", phone).Str("sid", sid).Msg("sms sent")
	return SendResult{Success: true, Detail: sid}
}
