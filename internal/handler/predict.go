package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"sentiment-rest-api/internal/classifier"
	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/internal/service"
	"sentiment-rest-api/pkg/apierror"
	"sentiment-rest-api/pkg/response"

	"github.com/rs/zerolog/log"
)

// maxPredictBody bounds the POST /predict body.
const maxPredictBody = 1 << 20

// PredictionHandler handles sentiment classification requests.
type PredictionHandler struct {
	service *service.PredictionService
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(svc *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: svc}
}

// Predict handles POST /predict
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req model.PredictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody)).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	pred, err := h.service.Predict(r.Context(), req.Text, clientIP(r))
	switch {
	case err == nil:
		response.Raw(w, http.StatusOK, pred)
	case errors.Is(err, service.ErrEmptyText):
		response.Error(w, apierror.BadRequest("Text cannot be empty."))
	case errors.Is(err, service.ErrModelUnavailable):
		response.Error(w, apierror.ModelUnavailable())
	case errors.Is(err, classifier.ErrUnavailable):
		log.Warn().Err(err).Msg("classifier_unavailable")
		response.Error(w, apierror.ServiceUnavailable("Model is loading or unreachable, try again later."))
	default:
		log.Error().Err(err).Msg("classification_failed")
		response.Error(w, apierror.BadGateway("Classification failed."))
	}
}

// clientIP returns the first X-Forwarded-For hop, or the peer host.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
