// internal/workers/guidance/share-result/handler_test.go
package shareresult

import (
	"context"
	"errors"
	"testing"
	"time"

	awsclient "pathfinder-workers/internal/common/aws"
	apperrors "pathfinder-workers/internal/common/errors"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/recommendation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type memoryResults map[string]*models.SavedResult

func (m memoryResults) Load(_ context.Context, studentID string) (*models.SavedResult, error) {
	return m[studentID], nil
}

type failingResults struct{}

func (failingResults) Load(context.Context, string) (*models.SavedResult, error) {
	return nil, errors.New("connection reset by peer")
}

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (r *recordingSender) SendText(_ context.Context, to, subject, body string) (string, error) {
	r.to, r.subject, r.body = to, subject, body
	r.calls++
	return "email-1", r.err
}

func (r *recordingSender) SendSMS(_ context.Context, phone, message string) (string, error) {
	r.to, r.body = phone, message
	r.calls++
	return "sms-1", r.err
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{MessageId: aws.String("0100018f-ses")}, nil
}

func createTestResults() memoryResults {
	return memoryResults{
		"student-1": {
			RunID:     "run-1",
			StudentID: "student-1",
			Recommendations: []recommendation.Recommendation{
				{Program: "BSIT", MatchPercent: 99},
				{Program: "BSEE", MatchPercent: 97},
			},
		},
		"student-2": {
			RunID:           "run-2",
			StudentID:       "student-2",
			Recommendations: []recommendation.Recommendation{},
		},
	}
}

func createTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.EmailEnabled = true
	cfg.SMSEnabled = true
	return cfg
}

func createTestHandler(t *testing.T, cfg *Config, results ResultLoader, email EmailSender, sms SMSSender) *Handler {
	h := NewHandler(cfg, results, email, sms, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestShareText(t *testing.T) {
	assert.Equal(t, "Pathfinder Result:\nTop Match: BSIT\nFit: 99%", ShareText("BSIT", 99))
}

func TestHandler_Execute_Email(t *testing.T) {
	email := &recordingSender{}
	handler := createTestHandler(t, createTestConfig(), createTestResults(), email, nil)

	output, err := handler.Execute(context.Background(), &Input{
		StudentID: "student-1",
		Channel:   "Email",
		Recipient: " student@example.edu ",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ShareStatusSent, output.Status)
	assert.Equal(t, "email", output.Channel)
	assert.Equal(t, "email-1", output.MessageID)
	assert.Equal(t, "2026-06-01T08:00:00Z", output.SentAt)
	assert.NotEmpty(t, output.ShareID)

	assert.Equal(t, "student@example.edu", email.to)
	assert.Equal(t, "Your Pathfinder result", email.subject)
	assert.Equal(t, "Pathfinder Result:\nTop Match: BSIT\nFit: 99%", email.body)
}

func TestHandler_Execute_SMS(t *testing.T) {
	sms := &recordingSender{}
	handler := createTestHandler(t, createTestConfig(), createTestResults(), nil, sms)

	output, err := handler.Execute(context.Background(), &Input{
		StudentID: "student-1",
		Channel:   "sms",
		Recipient: "+639171234567",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ShareStatusSent, output.Status)
	assert.Equal(t, "sms-1", output.MessageID)
	assert.Equal(t, "+639171234567", sms.to)
}

func TestHandler_Execute_ThroughSES(t *testing.T) {
	api := &fakeSES{}
	email := awsclient.NewSESClientFromAPI(api, "noreply@pathfinder.example")
	handler := createTestHandler(t, createTestConfig(), createTestResults(), email, nil)

	output, err := handler.Execute(context.Background(), &Input{
		StudentID: "student-1",
		Channel:   "email",
		Recipient: "student@example.edu",
	})
	require.NoError(t, err)

	assert.Equal(t, "0100018f-ses", output.MessageID)
	require.NotNil(t, api.input)
	assert.Equal(t, "noreply@pathfinder.example", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"student@example.edu"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Pathfinder Result:\nTop Match: BSIT\nFit: 99%", aws.ToString(api.input.Message.Body.Text.Data))
}

func TestHandler_Execute_StatusWithoutSending(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		input    *Input
		expected string
	}{
		{
			name:     "no saved result",
			cfg:      createTestConfig(),
			input:    &Input{StudentID: "student-9", Channel: "email", Recipient: "a@b.co"},
			expected: models.ShareStatusNoResults,
		},
		{
			name:     "empty saved result",
			cfg:      createTestConfig(),
			input:    &Input{StudentID: "student-2", Channel: "email", Recipient: "a@b.co"},
			expected: models.ShareStatusNoResults,
		},
		{
			name:     "email disabled",
			cfg:      DefaultConfig(),
			input:    &Input{StudentID: "student-1", Channel: "email", Recipient: "a@b.co"},
			expected: models.ShareStatusDisabled,
		},
		{
			name: "sms disabled",
			cfg: func() *Config {
				c := createTestConfig()
				c.SMSEnabled = false
				return c
			}(),
			input:    &Input{StudentID: "student-1", Channel: "sms", Recipient: "+15555550100"},
			expected: models.ShareStatusDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			handler := createTestHandler(t, tt.cfg, createTestResults(), sender, sender)

			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Status)
			assert.Empty(t, output.SentAt)
			assert.Equal(t, 0, sender.calls)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		results ResultLoader
		sender  *recordingSender
		input   *Input
		code    apperrors.ErrorCode
	}{
		{
			name:    "bad email",
			results: createTestResults(),
			sender:  &recordingSender{},
			input:   &Input{StudentID: "student-1", Channel: "email", Recipient: "not-an-email"},
			code:    apperrors.ErrCodeInvalidInput,
		},
		{
			name:    "bad phone",
			results: createTestResults(),
			sender:  &recordingSender{},
			input:   &Input{StudentID: "student-1", Channel: "sms", Recipient: "09171234567"},
			code:    apperrors.ErrCodeInvalidInput,
		},
		{
			name:    "unknown channel",
			results: createTestResults(),
			sender:  &recordingSender{},
			input:   &Input{StudentID: "student-1", Channel: "fax", Recipient: "+15555550100"},
			code:    apperrors.ErrCodeInvalidInput,
		},
		{
			name:    "result load failure",
			results: failingResults{},
			sender:  &recordingSender{},
			input:   &Input{StudentID: "student-1", Channel: "email", Recipient: "a@b.co"},
			code:    apperrors.ErrCodeResultLoadFailed,
		},
		{
			name:    "provider failure",
			results: createTestResults(),
			sender:  &recordingSender{err: errors.New("MessageRejected: Email address is not verified")},
			input:   &Input{StudentID: "student-1", Channel: "email", Recipient: "a@b.co"},
			code:    apperrors.ErrCodeShareSendFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, createTestConfig(), tt.results, tt.sender, tt.sender)

			_, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	handler := createTestHandler(t, createTestConfig(), createTestResults(), nil, nil)

	valid := `{"studentId":"s-1","channel":"sms","recipient":"+15555550100"}`
	_, err := handler.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: valid}})
	assert.NoError(t, err)

	for _, vars := range []string{
		`{"studentId":"s-1","channel":"pigeon","recipient":"+15555550100"}`,
		`{"studentId":"s-1","recipient":"+15555550100"}`,
		`{"studentId":"s-1","channel":"email","recipient":"a"}`,
	} {
		_, err := handler.parseInput(entities.Job{ActivatedJob: &pb.ActivatedJob{Variables: vars}})
		assert.Error(t, err, vars)
	}
}

// ==========================
// Recipient Validation Tests
// ==========================

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		recipient string
		wantErr   bool
	}{
		{"plain email", "email", "student@example.edu", false},
		{"email with plus tag", "email", "student+pf@mail.example.edu", false},
		{"email missing domain", "email", "student@", true},
		{"email with space", "email", "stu dent@example.edu", true},
		{"double at", "email", "a@@b.co", true},
		{"empty email", "email", "", true},
		{"e164 philippines", "sms", "+639171234567", false},
		{"e164 us", "sms", "+15555550100", false},
		{"missing plus", "sms", "639171234567", true},
		{"too long", "sms", "+1234567890123456", true},
		{"letters", "sms", "+1555CALLNOW", true},
		{"email on sms channel", "sms", "student@example.edu", true},
		{"phone on email channel", "email", "+15555550100", true},
		{"unknown channel", "fax", "+15555550100", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecipient(tt.channel, tt.recipient)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
		})
	}
}
