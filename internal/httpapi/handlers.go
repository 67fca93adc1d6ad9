package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/headline-dedup/internal/dedup"
	"horse.fit/headline-dedup/internal/fuzzy"
	"horse.fit/headline-dedup/internal/globaltime"
	payloadschema "horse.fit/headline-dedup/schema"
)

type normalizeRequest struct {
	Text *string `json:"text"`
}

type similarityRequest struct {
	A *string `json:"a"`
	B *string `json:"b"`
}

type matchRequest struct {
	Title     *string  `json:"title"`
	Previous  []string `json:"previous"`
	Threshold *float64 `json:"threshold"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return respond(c, map[string]any{
		"service":   "headline-dedup",
		"time":      globaltime.UTC(),
		"threshold": s.opts.Threshold,
	})
}

func (s *Server) handleNormalize(c echo.Context) error {
	var req normalizeRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return respondInvalidField(c, "body", err.Error())
	}
	if req.Text == nil {
		return respondInvalidField(c, "text", "is required")
	}
	if len(*req.Text) > s.opts.MaxTitleBytes {
		return respondInvalidField(c, "text", tooLongMessage(s.opts.MaxTitleBytes))
	}

	return respond(c, map[string]any{
		"normalized": fuzzy.NormalizeText(*req.Text),
	})
}

func (s *Server) handleSimilarity(c echo.Context) error {
	var req similarityRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return respondInvalidField(c, "body", err.Error())
	}

	fieldErrors := map[string]string{}
	if req.A == nil {
		fieldErrors["a"] = "is required"
	} else if len(*req.A) > s.opts.MaxTitleBytes {
		fieldErrors["a"] = tooLongMessage(s.opts.MaxTitleBytes)
	}
	if req.B == nil {
		fieldErrors["b"] = "is required"
	} else if len(*req.B) > s.opts.MaxTitleBytes {
		fieldErrors["b"] = tooLongMessage(s.opts.MaxTitleBytes)
	}
	if len(fieldErrors) > 0 {
		return respondInvalid(c, fieldErrors)
	}

	return respond(c, map[string]any{
		"ratio": fuzzy.SimilarityRatio(*req.A, *req.B),
	})
}

func (s *Server) handleCluster(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return respondInvalidField(c, "body", err.Error())
	}

	batch, err := payloadschema.ValidateBatchPayload(raw)
	if err != nil {
		return respondInvalidField(c, "body", err.Error())
	}
	if fieldErrors := s.checkBounds(batch.Titles()); len(fieldErrors) > 0 {
		return respondInvalid(c, fieldErrors)
	}

	report := s.svc.Cluster(*batch, dedup.Options{
		Threshold:      s.opts.Threshold,
		DetectLanguage: s.opts.DetectLanguage,
	})
	return respond(c, report)
}

func (s *Server) handleMatch(c echo.Context) error {
	var req matchRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return respondInvalidField(c, "body", err.Error())
	}
	if req.Title == nil {
		return respondInvalidField(c, "title", "is required")
	}
	threshold := s.opts.UpdateThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	titles := append([]string{*req.Title}, req.Previous...)
	if fieldErrors := s.checkBounds(titles); len(fieldErrors) > 0 {
		return respondInvalid(c, fieldErrors)
	}

	return respond(c, s.svc.Match(*req.Title, req.Previous, threshold))
}

func (s *Server) checkBounds(titles []string) map[string]string {
	err := dedup.CheckBounds(titles, s.opts.MaxBatchItems, s.opts.MaxTitleBytes)
	if err == nil {
		return nil
	}
	var boundsErr *dedup.BoundsError
	if errors.As(err, &boundsErr) {
		return map[string]string{boundsErr.Field: boundsErr.Message}
	}
	return map[string]string{"items": err.Error()}
}

func tooLongMessage(limit int) string {
	return fmt.Sprintf("must be at most %d bytes", limit)
}

func decodeJSONBody(c echo.Context, dst any) error {
	body := c.Request().Body
	if body == nil || body == http.NoBody {
		return fmt.Errorf("request body is empty")
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("request body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body contains trailing content")
	}
	return nil
}
