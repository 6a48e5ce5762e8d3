package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/enum"
	er "github.com/intentstack/intentstack/internal/errors"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/services/smtp"
)

const apiCallTimeout = 30 * time.Second

type actionExecutor struct {
	sender    *smtp.Sender
	publisher interfaces.EventPublisher
	emails    interfaces.ProcessedEmailRepository
	httpCli   *http.Client
}

// NewActionExecutor wires the side effect backends behind each action
// type: SMTP for outbound mail, the broker for notifications and the
// email store for record updates.
func NewActionExecutor(sender *smtp.Sender, publisher interfaces.EventPublisher, emails interfaces.ProcessedEmailRepository) interfaces.ActionExecutor {
	return &actionExecutor{
		sender:    sender,
		publisher: publisher,
		emails:    emails,
		httpCli: &http.Client{
			Timeout: apiCallTimeout,
		},
	}
}

func (e *actionExecutor) Execute(ctx context.Context, actionType enum.ActionType, resolvedConfig map[string]interface{}) (interface{}, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "actionExecutor.Execute")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("action.type", actionType.String())

	switch actionType {
	case enum.ActionTypeSendEmail:
		return e.executeSendEmail(ctx, resolvedConfig)
	case enum.ActionTypeAPICall:
		return e.executeAPICall(ctx, resolvedConfig)
	case enum.ActionTypeUpdateRecord:
		return e.executeUpdateRecord(ctx, resolvedConfig)
	case enum.ActionTypeNotification:
		return e.executeNotification(ctx, resolvedConfig)
	case enum.ActionTypeCustom:
		return nil, errors.Wrap(er.ErrUnsupportedActionType, "custom actions are not implemented")
	default:
		return nil, errors.Wrapf(er.ErrUnsupportedActionType, "unknown action type %s", actionType)
	}
}

func (e *actionExecutor) executeSendEmail(ctx context.Context, config map[string]interface{}) (interface{}, error) {
	email := smtp.OutboundEmail{
		To:      stringSlice(config["to"]),
		Subject: stringValue(config["subject"]),
		Body:    stringValue(config["body"]),
	}
	if err := e.sender.Send(ctx, email); err != nil {
		return nil, err
	}
	return map[string]interface{}{"sent": true, "to": email.To}, nil
}

func (e *actionExecutor) executeAPICall(ctx context.Context, config map[string]interface{}) (interface{}, error) {
	url := stringValue(config["url"])
	if url == "" {
		return nil, errors.New("api_call action requires a url")
	}
	method := stringValue(config["method"])
	if method == "" {
		method = http.MethodPost
	}

	var payload io.Reader
	if body, ok := config["body"]; ok && body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		payload = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if headers, ok := config["headers"].(map[string]interface{}); ok {
		for key, value := range headers {
			req.Header.Set(key, stringValue(value))
		}
	}

	resp, err := e.httpCli.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(responseBody))
	}

	var parsed interface{}
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		// Non JSON responses are returned as raw text
		return string(responseBody), nil
	}
	return parsed, nil
}

// executeUpdateRecord merges the configured data into the extracted data
// of a processed email record
func (e *actionExecutor) executeUpdateRecord(ctx context.Context, config map[string]interface{}) (interface{}, error) {
	recordID := stringValue(config["recordId"])
	if recordID == "" {
		return nil, errors.New("update_record action requires a recordId")
	}
	data, ok := config["data"].(map[string]interface{})
	if !ok || len(data) == 0 {
		return nil, errors.New("update_record action requires a data object")
	}

	email, err := e.emails.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	merged := models.JSONMap{}
	for key, value := range email.ExtractedData {
		merged[key] = value
	}
	for key, value := range data {
		merged[key] = value
	}

	if _, err := e.emails.UpdateStatus(ctx, email.ID, email.Status, &interfaces.StatusPatch{
		ExtractedData: merged,
	}); err != nil {
		return nil, err
	}
	return map[string]interface{}{"updated": true, "recordId": recordID}, nil
}

func (e *actionExecutor) executeNotification(ctx context.Context, config map[string]interface{}) (interface{}, error) {
	if e.publisher == nil {
		return nil, errors.New("notification broker is not configured")
	}
	notification := dto.Notification{
		Title:      stringValue(config["title"]),
		Message:    stringValue(config["message"]),
		Type:       stringValue(config["type"]),
		Recipients: stringSlice(config["recipients"]),
	}
	entityID := stringValue(config["entityId"])

	if err := e.publisher.PublishNotification(ctx, entityID, enum.EMAIL, notification); err != nil {
		return nil, err
	}
	return map[string]interface{}{"published": true}, nil
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func stringSlice(v interface{}) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []interface{}:
		result := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	}
	return nil
}
