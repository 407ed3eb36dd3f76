package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"krowbot/core"
	"krowbot/metrics"
	"krowbot/models"
	"krowbot/services"
	"krowbot/usecases"
)

const maxWebhookBodyBytes = 1 << 20

type KofiWebhookHandler struct {
	verificationToken string
	donationsService  services.DonationsService
	publisher         usecases.DonationPublisher
}

func NewKofiWebhookHandler(
	verificationToken string,
	donationsService services.DonationsService,
	publisher usecases.DonationPublisher,
) *KofiWebhookHandler {
	return &KofiWebhookHandler{
		verificationToken: verificationToken,
		donationsService:  donationsService,
		publisher:         publisher,
	}
}

func (h *KofiWebhookHandler) SetupEndpoints(router *mux.Router) {
	log.Info().Msg("🚀 Registering Ko-fi webhook endpoint")
	router.HandleFunc("/", h.HandleKofiWebhook).Methods("POST")
}

// HandleKofiWebhook verifies, records and acknowledges one Ko-fi delivery.
// Notifications are only published once the delivery has been acknowledged.
func (h *KofiWebhookHandler) HandleKofiWebhook(w http.ResponseWriter, r *http.Request) {
	log.Info().Str("remote_addr", r.RemoteAddr).Msg("☕ Ko-fi webhook received")

	payload, err := parseKofiPayload(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("❌ Failed to parse Ko-fi payload")
		metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if !h.verify(payload.VerificationToken) {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("🔒 Ko-fi verification token mismatch - rejecting delivery")
		metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	donation, err := h.donationsService.RecordDonation(r.Context(), payload)
	switch {
	case err == nil:
	case core.IsInvalidInputError(err):
		log.Warn().Err(err).Msg("❌ Rejected invalid Ko-fi delivery")
		metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	case core.IsDuplicateError(err):
		log.Info().Str("transaction_id", payload.KofiTransactionID).Msg("🔁 Duplicate Ko-fi delivery acknowledged")
		metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		w.WriteHeader(http.StatusOK)
		return
	default:
		log.Error().Err(err).Str("transaction_id", payload.KofiTransactionID).Msg("❌ Failed to record Ko-fi donation")
		metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeFailed).Inc()
		http.Error(w, "failed to record donation", http.StatusInternalServerError)
		return
	}

	metrics.WebhookDeliveries.WithLabelValues(metrics.OutcomeAccepted).Inc()
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	h.publisher.Publish(models.NewDonationEvent(donation, payload))
	log.Info().
		Str("transaction_id", donation.TransactionID).
		Str("kind", string(payload.Kind())).
		Msg("✅ Ko-fi donation recorded")
}

func (h *KofiWebhookHandler) verify(token string) bool {
	if token == "" || h.verificationToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.verificationToken)) == 1
}

// parseKofiPayload accepts JSON bodies and form bodies. Ko-fi itself posts a form
// whose data field carries the JSON payload.
func parseKofiPayload(w http.ResponseWriter, r *http.Request) (models.KofiPayload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return models.KofiPayload{}, fmt.Errorf("failed to read body: %w", err)
		}
		return models.DecodeKofiPayload(raw)
	}

	if err := r.ParseForm(); err != nil {
		return models.KofiPayload{}, fmt.Errorf("failed to parse form: %w", err)
	}
	if data := r.PostForm.Get("data"); data != "" {
		return models.DecodeKofiPayload([]byte(data))
	}
	return payloadFromForm(r.PostForm)
}

func payloadFromForm(form url.Values) (models.KofiPayload, error) {
	if len(form) == 0 {
		return models.KofiPayload{}, errors.New("empty form body")
	}

	isPublic, err := formBool(form, "is_public")
	if err != nil {
		return models.KofiPayload{}, err
	}
	isSubscriptionPayment, err := formBool(form, "is_subscription_payment")
	if err != nil {
		return models.KofiPayload{}, err
	}

	payload := models.KofiPayload{
		VerificationToken:     form.Get("verification_token"),
		MessageID:             form.Get("message_id"),
		Timestamp:             form.Get("timestamp"),
		Type:                  form.Get("type"),
		IsPublic:              isPublic,
		FromName:              form.Get("from_name"),
		Amount:                form.Get("amount"),
		Currency:              form.Get("currency"),
		KofiTransactionID:     form.Get("kofi_transaction_id"),
		IsSubscriptionPayment: isSubscriptionPayment,
	}
	if form.Has("message") {
		message := form.Get("message")
		payload.Message = &message
	}
	return payload, nil
}

func formBool(form url.Values, key string) (models.FlexBool, error) {
	raw := form.Get(key)
	if raw == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return models.FlexBool(parsed), nil
}
