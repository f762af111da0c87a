package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"btc-advisor/internal/analysis/scoring"
	apperrors "btc-advisor/internal/errors"
	"btc-advisor/internal/logging"
	"btc-advisor/internal/models"
	"btc-advisor/internal/summary"
)

const maxBodyBytes = 64 << 10

// formValue accepts a JSON string, number or null and keeps its text form.
// Form fields arrive as text and are parsed by the scoring validator.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}

type analyzeRequest struct {
	Price                   formValue `json:"price"`
	FearGreedIndex          formValue `json:"fear_greed_index"`
	FundamentalOutlook      formValue `json:"fundamental_outlook"`
	InterestRateOutlook     formValue `json:"interest_rate_outlook"`
	RegulatoryEnvironment   formValue `json:"regulatory_environment"`
	InstitutionalFlowsUSD   formValue `json:"institutional_flows_usd"`
	FundingRatePercent      formValue `json:"funding_rate_percent"`
	OpenInterestUSD         formValue `json:"open_interest_usd"`
	PreviousOpenInterestUSD formValue `json:"previous_open_interest_usd"`
	SMA50                   formValue `json:"sma50"`
	SMA200                  formValue `json:"sma200"`
	RSI                     formValue `json:"rsi"`
	ADX                     formValue `json:"adx"`
	MACDLine                formValue `json:"macd_line"`
	MACDSignalLine          formValue `json:"macd_signal_line"`
	Volume24h               formValue `json:"volume_24h"`
	AverageVolume24h        formValue `json:"average_volume_24h"`
	ATR                     formValue `json:"atr"`
}

func (r analyzeRequest) raw() models.RawInputs {
	return models.RawInputs{
		Price:                   string(r.Price),
		FearGreedIndex:          string(r.FearGreedIndex),
		FundamentalOutlook:      string(r.FundamentalOutlook),
		InterestRateOutlook:     string(r.InterestRateOutlook),
		RegulatoryEnvironment:   string(r.RegulatoryEnvironment),
		InstitutionalFlowsUSD:   string(r.InstitutionalFlowsUSD),
		FundingRatePercent:      string(r.FundingRatePercent),
		OpenInterestUSD:         string(r.OpenInterestUSD),
		PreviousOpenInterestUSD: string(r.PreviousOpenInterestUSD),
		SMA50:                   string(r.SMA50),
		SMA200:                  string(r.SMA200),
		RSI:                     string(r.RSI),
		ADX:                     string(r.ADX),
		MACDLine:                string(r.MACDLine),
		MACDSignalLine:          string(r.MACDSignalLine),
		Volume24h:               string(r.Volume24h),
		AverageVolume24h:        string(r.AverageVolume24h),
		ATR:                     string(r.ATR),
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type summaryRequest struct {
	Asset string `json:"asset"`
}

type summaryResponse struct {
	Asset string `json:"asset"`
	summary.Snapshot
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":            "ok",
		"summary_available": s.refresher != nil,
		"time":              s.now().UTC().Format(time.RFC3339),
	}
	if s.breaker != nil {
		body["summary_breaker"] = s.breaker.BreakerState().String()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	start := time.Now()
	result, err := scoring.AnalyzeRaw(req.raw())
	s.metrics.AnalysisLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		var inputErr *apperrors.InvalidInputError
		if apperrors.As(err, &inputErr) {
			s.metrics.InvalidInputs.WithLabelValues(inputErr.Field, string(inputErr.Reason)).Inc()
			logging.LogInvalidInput(logger, inputErr.Field, string(inputErr.Reason))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  inputErr.Message,
				Field:  inputErr.Field,
				Reason: string(inputErr.Reason),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := result.Recommendation
	s.metrics.Recommendations.WithLabelValues(string(rec.Signal)).Inc()
	logging.LogRecommendation(logger, string(rec.Signal), rec.Confidence,
		result.Breakdown.Fundamental, result.Breakdown.Sentiment, result.Breakdown.Technical)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRefreshSummary(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		s.metrics.SummaryRequests.WithLabelValues("unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, "market summary is not configured")
		return
	}
	if !s.limiter.Allow() {
		s.metrics.SummaryRequests.WithLabelValues("rate_limited").Inc()
		writeError(w, http.StatusTooManyRequests, apperrors.ErrRateLimited.Error())
		return
	}

	// An empty body, chunked or not, asks for the default asset.
	var req summaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !apperrors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	asset := strings.TrimSpace(req.Asset)
	if asset == "" {
		asset = s.cfg.Asset
	}
	if asset == "" {
		asset = summary.DefaultAsset
	}

	logger := logging.FromContext(r.Context())
	snap, err := s.refresher.Refresh(r.Context(), summary.BuildPrompt(asset, s.now()))
	switch {
	case err == nil:
		s.metrics.SummaryRequests.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, summaryResponse{Asset: asset, Snapshot: snap})
	case apperrors.Is(err, apperrors.ErrSuperseded):
		s.metrics.SummaryRequests.WithLabelValues("superseded").Inc()
		writeError(w, http.StatusConflict, "superseded by a newer summary request")
	default:
		s.metrics.SummaryRequests.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Str("asset", asset).Msg("Market summary refresh failed")
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) handleLatestSummary(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "market summary is not configured")
		return
	}
	snap, ok := s.refresher.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no summary fetched yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = strconv.Itoa(status) + " " + http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
