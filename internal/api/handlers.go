package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"calclog/internal/observability"
	"calclog/pkg/calclog"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getWorkoutTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calclog.WorkoutTypes())
}

func (h *handler) computeTraining(w http.ResponseWriter, r *http.Request) {
	var payload trainingPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := calclog.ProcessPackage(payload.Code, payload.Values)
	if err != nil {
		observability.RecordFailure(string(calclog.CodeOf(err)))
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	observability.RecordTraining(code)

	id, err := h.core.RecordSummary(r.Context(), code, summary)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, trainingResponse{
		ID:      id,
		Code:    code,
		Summary: summary,
		Message: calclog.FormatSummary(summary),
	})
}

func (h *handler) getTrainings(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	result, err := h.core.GetSummaries(r.Context(), limit, offset)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) importTrainings(w http.ResponseWriter, r *http.Request) {
	var payload importTrainingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(payload.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "lines are required")
		return
	}
	count, err := h.core.ImportSummaries(r.Context(), payload.Lines)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeSuccessWithMessage(w, "imported", map[string]int{"count": count})
}

func (h *handler) computeFinancialResult(w http.ResponseWriter, r *http.Request) {
	var payload financialPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.Asset) == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}

	asset := calclog.NewAsset(payload.Asset)
	if payload.Quoted {
		asset = calclog.NewQuotedAsset(payload.Asset)
		if err := h.quote(r, asset, payload.USDRate); err != nil {
			observability.RecordFailure(string(calclog.CodeOf(err)))
			writeErrorResponse(w, r, http.StatusBadRequest, err)
			return
		}
	}

	result, err := asset.CalcFinRes(payload.BuyPrice, payload.SellPrice, payload.Amount, payload.Balance)
	if err != nil {
		observability.RecordFailure(string(calclog.CodeOf(err)))
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	observability.RecordFinancialResult(asset.Quoted())

	entry := calclog.FinancialEntry{
		AssetName: asset.Name,
		Quoted:    asset.Quoted(),
		BuyPrice:  payload.BuyPrice,
		SellPrice: payload.SellPrice,
		Amount:    payload.Amount,
		Balance:   payload.Balance,
		Result:    result,
	}
	if rate, ok := asset.USDRate(); ok {
		entry.USDRate = &rate
	}
	id, err := h.core.RecordFinancialResult(r.Context(), entry)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, financialResponse{
		ID:      id,
		Asset:   entry.AssetName,
		Quoted:  entry.Quoted,
		USDRate: entry.USDRate,
		Result:  result,
	})
}

// quote sets the asset rate from the request, falling back to the maintained rate.
func (h *handler) quote(r *http.Request, asset *calclog.Asset, raw json.RawMessage) error {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return h.core.QuoteAsset(r.Context(), asset)
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	return asset.SetUSDRateString(text)
}

func (h *handler) getFinancialResults(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	result, err := h.core.GetFinancialResults(r.Context(), limit, offset)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getExchangeRates(w http.ResponseWriter, r *http.Request) {
	result, err := h.core.GetExchangeRates(r.Context())
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) setExchangeRate(w http.ResponseWriter, r *http.Request) {
	var payload exchangeRatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := h.core.SetExchangeRate(r.Context(), payload.FromCurrency, payload.ToCurrency, payload.Rate.InexactFloat64(), "manual")
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	writeSuccessWithMessage(w, "updated", nil)
}

func (h *handler) refreshExchangeRate(w http.ResponseWriter, r *http.Request) {
	var payload refreshExchangeRatePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from := payload.FromCurrency
	if from == "" {
		from = "USD"
	}
	to := payload.ToCurrency
	if to == "" {
		to = h.core.LocalCurrency()
	}
	rate, provider, err := h.core.RefreshExchangeRate(r.Context(), from, to)
	if err != nil {
		h.logger.Warn("exchange rate refresh failed", "from", from, "to", to, "err", err)
		writeErrorResponse(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from_currency": strings.ToUpper(from),
		"to_currency":   strings.ToUpper(to),
		"rate":          rate,
		"provider":      provider,
	})
}

// Helpers.

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func pageParams(r *http.Request) (int, int) {
	query := r.URL.Query()
	limit := parseIntDefault(query.Get("limit"), 50)
	offset := parseIntDefault(query.Get("offset"), 0)
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
