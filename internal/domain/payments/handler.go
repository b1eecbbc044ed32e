package payments

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinika/clinika/internal/platform/auth"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the authenticated payment endpoints on api and the
// gateway callback on public. The callback must stay outside the JWT
// middleware: the provider signs nothing and authenticates nothing, so the
// receiver trusts only references it issued itself.
func (h *Handler) RegisterRoutes(api, public *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "secretary", "cashier"))
	g.POST("/payments", h.Create)
	g.GET("/payments/:id", h.Get)
	g.GET("/consultations/:id/payment", h.GetByConsultation)

	// MVola delivers result notifications as PUT, older gateway versions
	// used POST. Both land on the same handler.
	public.POST("/payments/callback", h.Callback)
	public.PUT("/payments/callback", h.Callback)
}

type createRequest struct {
	ConsultationID uuid.UUID `json:"consultation_id"`
	Method         Method    `json:"method"`
	Amount         float64   `json:"amount"`
	PayerMSISDN    string    `json:"payer_msisdn"`
}

func (h *Handler) Create(c echo.Context) error {
	var in createRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Request(c.Request().Context(), RequestInput{
		ConsultationID: in.ConsultationID,
		Method:         in.Method,
		Amount:         in.Amount,
		PayerMSISDN:    in.PayerMSISDN,
	})
	if err != nil {
		var gwErr *GatewayError
		switch {
		case errors.Is(err, ErrConsultationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrConsultationNotPriced),
			errors.Is(err, ErrAmountMismatch),
			errors.Is(err, ErrAlreadyPaid),
			errors.Is(err, ErrInvalidMethod),
			errors.Is(err, ErrInvalidMSISDN):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.As(err, &gwErr):
			h.log.Error().Err(err).
				Str("consultation_id", in.ConsultationID.String()).
				Msg("gateway rejected payment request")
			return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetByConsultation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetByConsultation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no payment for consultation")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

type callbackRequest struct {
	ServerCorrelationID string `json:"serverCorrelationId"`
	TransactionStatus   string `json:"transactionStatus"`
}

type callbackAck struct {
	Status string `json:"status"`
}

// Callback applies a gateway result notification. It acknowledges with 200
// no matter what: the provider retries on anything else, and a retry storm
// over a reference we already settled buys nothing. Anomalies are logged,
// never surfaced.
func (h *Handler) Callback(c echo.Context) error {
	var in callbackRequest
	if err := c.Bind(&in); err != nil {
		h.log.Warn().Err(err).Msg("discarding malformed gateway callback")
		return c.JSON(http.StatusOK, callbackAck{Status: "received"})
	}
	if in.ServerCorrelationID == "" {
		h.log.Warn().Msg("discarding gateway callback without correlation id")
		return c.JSON(http.StatusOK, callbackAck{Status: "received"})
	}
	var outcome Outcome
	switch in.TransactionStatus {
	case "completed":
		outcome = OutcomeCompleted
	case "failed":
		outcome = OutcomeFailed
	default:
		h.log.Warn().
			Str("transaction_status", in.TransactionStatus).
			Str("server_correlation_id", in.ServerCorrelationID).
			Msg("discarding gateway callback with unknown status")
		return c.JSON(http.StatusOK, callbackAck{Status: "received"})
	}
	if err := h.svc.Confirm(c.Request().Context(), in.ServerCorrelationID, outcome); err != nil {
		h.log.Error().Err(err).
			Str("server_correlation_id", in.ServerCorrelationID).
			Msg("failed to apply gateway callback")
	}
	return c.JSON(http.StatusOK, callbackAck{Status: "received"})
}
