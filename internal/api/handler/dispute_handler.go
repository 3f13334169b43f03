package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
)

// DisputeHandler handles HTTP requests for disputes, jury votes, and the
// evidence thread.
type DisputeHandler struct {
	disputes    ports.DisputeService
	arbitration ports.ArbitrationService
	evidence    ports.EvidenceService
}

func NewDisputeHandler(disputes ports.DisputeService, arbitration ports.ArbitrationService, evidence ports.EvidenceService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes, arbitration: arbitration, evidence: evidence}
}

// --- Request / Response types ---

type createDisputeRequest struct {
	OrderID        string `json:"order_id" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=2000"`
	RequiredJurors int    `json:"required_jurors" validate:"required,min=1"`
}

type assignJurorsRequest struct {
	JurorIDs []string `json:"juror_ids" validate:"required,min=1"`
}

type submitVoteRequest struct {
	Choice     string  `json:"choice" validate:"required,oneof=buyer seller"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

type postEvidenceRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type disputeResponse struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"order_id"`
	BuyerID         string     `json:"buyer_id"`
	SellerID        string     `json:"seller_id"`
	Reason          string     `json:"reason"`
	RequiredJurors  int        `json:"required_jurors"`
	JurorIDs        []string   `json:"juror_ids"`
	Status          string     `json:"status"`
	BuyerVoteCount  int        `json:"buyer_vote_count"`
	SellerVoteCount int        `json:"seller_vote_count"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

type disputeListResponse struct {
	Disputes []disputeResponse `json:"disputes"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toDisputeResponse(d *domain.Dispute) disputeResponse {
	return disputeResponse{
		ID:              d.ID,
		OrderID:         d.OrderID,
		BuyerID:         d.BuyerID,
		SellerID:        d.SellerID,
		Reason:          d.Reason,
		RequiredJurors:  d.RequiredJurors,
		JurorIDs:        d.JurorIDs,
		Status:          string(d.Status),
		BuyerVoteCount:  d.BuyerVoteCount,
		SellerVoteCount: d.SellerVoteCount,
		CreatedAt:       d.CreatedAt,
		ResolvedAt:      d.ResolvedAt,
	}
}

// Create handles POST /api/v1/disputes.
//
// @Summary      Open a dispute on a completed order
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDisputeRequest  true  "Dispute details"
// @Success      201   {object}  disputeResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/disputes [post]
func (h *DisputeHandler) Create(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createDisputeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dispute, err := h.disputes.Create(c.Request().Context(), ports.CreateDisputeInput{
		OrderID:        req.OrderID,
		BuyerID:        userID,
		Reason:         req.Reason,
		RequiredJurors: req.RequiredJurors,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDisputeResponse(dispute))
}

// Get handles GET /api/v1/disputes/:id.
func (h *DisputeHandler) Get(c echo.Context) error {
	userID, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	dispute, err := h.disputes.Get(c.Request().Context(), c.Param("id"), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDisputeResponse(dispute))
}

// List handles GET /api/v1/disputes.
func (h *DisputeHandler) List(c echo.Context) error {
	userID, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	disputes, total, err := h.disputes.List(c.Request().Context(), userID, role, page, limit)
	if err != nil {
		return err
	}

	items := make([]disputeResponse, 0, len(disputes))
	for _, d := range disputes {
		items = append(items, toDisputeResponse(d))
	}
	return c.JSON(http.StatusOK, disputeListResponse{
		Disputes: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// AssignJurors handles POST /api/v1/disputes/:id/jurors (admin only).
func (h *DisputeHandler) AssignJurors(c echo.Context) error {
	var req assignJurorsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dispute, err := h.disputes.AssignJurors(c.Request().Context(), c.Param("id"), req.JurorIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDisputeResponse(dispute))
}

// SubmitVote handles POST /api/v1/disputes/:id/votes.
//
// @Summary      Submit or replace a juror ballot
// @Tags         disputes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Dispute id"
// @Param        body  body      submitVoteRequest  true  "Ballot"
// @Success      200   {object}  ports.VoteResult
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/disputes/{id}/votes [post]
func (h *DisputeHandler) SubmitVote(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req submitVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.arbitration.SubmitVote(c.Request().Context(), c.Param("id"), userID, domain.VoteChoice(req.Choice), req.Confidence)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// PostEvidence handles POST /api/v1/disputes/:id/evidence.
func (h *DisputeHandler) PostEvidence(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req postEvidenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.evidence.Post(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// ListEvidence handles GET /api/v1/disputes/:id/evidence.
func (h *DisputeHandler) ListEvidence(c echo.Context) error {
	userID, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	entries, err := h.evidence.List(c.Request().Context(), c.Param("id"), userID, role)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.EvidenceEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
