package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/arcano/internal/app"
	"github.com/randomtoy/arcano/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type Handler struct {
	svc    *app.TarotService
	logger *slog.Logger
}

func NewHandler(svc *app.TarotService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.GET("/spreads", h.ListSpreads)
	v1.POST("/readings", h.CreateReading)
	v1.GET("/readings", h.ListReadings)
	v1.GET("/readings/:id", h.GetReading)
	v1.DELETE("/readings/:id", h.DeleteReading)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListSpreads(c echo.Context) error {
	spreads, err := h.svc.ListSpreads(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	out := SpreadListResponse{Spreads: make([]SpreadResponse, len(spreads))}
	for i, sp := range spreads {
		out.Spreads[i] = SpreadResponse{
			Key:         sp.Key,
			Name:        sp.Name,
			Description: sp.Description,
			Strategy:    sp.Strategy,
			Positions:   sp.Positions,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateReading(c echo.Context) error {
	var body CreateReadingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	body.Spread = strings.TrimSpace(body.Spread)
	if body.Spread == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "spread is required"})
	}

	res, err := h.svc.PerformReading(c.Request().Context(), app.ReadingRequest{
		Spread:   body.Spread,
		Question: body.Question,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusCreated, toResponse(res, requestID))
}

func (h *Handler) ListReadings(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer between 1 and 100"})
		}
		limit = parsed
	}

	recs, err := h.svc.History(c.Request().Context(), limit)
	if err != nil {
		return h.mapError(c, err)
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Readings: recs})
}

func (h *Handler) GetReading(c echo.Context) error {
	rec, err := h.svc.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteReading(c echo.Context) error {
	if err := h.svc.DeleteRecord(c.Request().Context(), c.Param("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toResponse(r app.Result, requestID string) ReadingResponse {
	cards := make([]CardResponse, len(r.Reading.Cards))
	for i, dc := range r.Reading.Cards {
		cards[i] = CardResponse{
			Index:       dc.Index,
			Position:    dc.Position,
			Name:        dc.Name,
			Number:      dc.Number,
			Arcana:      dc.Arcana,
			Suit:        dc.Suit,
			Orientation: dc.Orientation,
			Meaning:     dc.Meaning(dc.Orientation),
			Keywords:    dc.Keywords,
			Element:     dc.Element,
		}
	}
	return ReadingResponse{
		ID:        r.Record.ID,
		Timestamp: r.Record.Timestamp,
		Spread:    SpreadRef{Key: r.Reading.Spread.Key, Name: r.Reading.Spread.Name},
		Question:  r.Reading.Question,
		Cards:     cards,
		Interpretation: InterpretationResp{
			Title:    r.Interpretation.Title,
			Text:     r.Interpretation.Text(),
			Sections: r.Interpretation.Sections,
		},
		Narrative: r.Narrative,
		Meta: MetaResp{
			Model:     r.Model,
			RequestID: requestID,
			LatencyMS: r.LatencyMS,
		},
	}
}

func (h *Handler) mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrUnknownSpread), errors.Is(err, domain.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQuestionTooLong):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrQuestionTooLong.Error()})
	case errors.Is(err, domain.ErrHistoryDisabled):
		return c.JSON(http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
