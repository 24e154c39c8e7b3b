package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"membership/config"
	deliverycontext "membership/internal/delivery/context"
	"membership/internal/domain/service"
	"membership/internal/infra/metrics"
	"membership/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

const unknownEventType = "unknown"

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler consumes member events pushed by Pub/Sub (or the local publisher).
// A registration event drops the cached admin listings so every API instance
// serves the new member, even when the registering instance failed to do so.
type PushHandler struct {
	verifyPushAuth bool
	verifyToken    func(*http.Request) error
	listCache      service.MemberListCache
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	ListCache service.MemberListCache
	Metrics   *metrics.Metrics `optional:"true"`
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google pushes carry an OIDC token; local pushes do not
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		params.Config.Env.Env != config.EnvLocal

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		verifyToken:    verifyPubSubToken,
		listCache:      params.ListCache,
		metrics:        params.Metrics,
		logger:         params.Logger,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.String("error", err.Error()))
			h.metrics.RecordEvent(unknownEventType, metrics.EventRejected)

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		return h.reject(c, "Failed to parse push message", err)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return h.reject(c, "Failed to decode message data", err)
	}

	var event service.MemberRegisteredEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return h.reject(c, "Failed to parse member event", err)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	eventType := eventTypeOf(&pushMsg, &event)
	if eventType != service.MemberRegisteredEventType {
		reqLogger.Warn("[Worker] Ignoring unsupported event",
			slog.String("event_type", eventType),
			slog.String("message_id", pushMsg.Message.MessageID),
		)
		h.metrics.RecordEvent(eventType, metrics.EventIgnored)

		// Acknowledge so Pub/Sub does not redeliver it forever
		return c.NoContent(http.StatusOK)
	}

	if err := h.processMemberRegistered(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process member event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
			slog.Bool("retryable", isRetryableError(err)),
		)
		if isRetryableError(err) {
			h.metrics.RecordEvent(eventType, metrics.EventRetry)

			return c.NoContent(http.StatusServiceUnavailable)
		}
		h.metrics.RecordEvent(eventType, metrics.EventRejected)

		return c.NoContent(http.StatusOK)
	}

	h.metrics.RecordEvent(eventType, metrics.EventProcessed)

	return c.NoContent(http.StatusOK)
}

func (h *PushHandler) reject(c echo.Context, msg string, err error) error {
	h.logger.Error("[Worker] "+msg, slog.String("error", err.Error()))
	h.metrics.RecordEvent(unknownEventType, metrics.EventRejected)

	return c.NoContent(http.StatusBadRequest)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.MemberRegisteredEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

func eventTypeOf(pushMsg *PubSubMessage, event *service.MemberRegisteredEvent) string {
	if eventType := pushMsg.Message.Attributes["event_type"]; eventType != "" {
		return eventType
	}
	if event.EventType != "" {
		return event.EventType
	}

	return unknownEventType
}

func (h *PushHandler) processMemberRegistered(ctx context.Context, event *service.MemberRegisteredEvent) error {
	if event.MemberID <= 0 {
		return errors.Errorf("member event %s has no member id", event.EventID)
	}

	if err := h.listCache.InvalidateNamespace(ctx, service.MemberListNamespace); err != nil {
		return newRetryableError(errors.Wrap(err, "invalidate member list cache"))
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Member registered",
		slog.String("event_id", event.EventID),
		slog.Int64("member_id", event.MemberID),
		slog.String("county", event.County),
		slog.Time("registered_at", event.RegisteredAt),
	)

	return nil
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
