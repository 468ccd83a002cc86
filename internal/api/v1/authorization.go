package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ivesbwas/bwas/internal/api/dto"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/service"
)

type AuthorizationHandler struct {
	service        service.AuthorizationService
	reconciliation service.ReconciliationService
	log            *logger.Logger
}

func NewAuthorizationHandler(
	service service.AuthorizationService,
	reconciliation service.ReconciliationService,
	log *logger.Logger,
) *AuthorizationHandler {
	return &AuthorizationHandler{
		service:        service,
		reconciliation: reconciliation,
		log:            log,
	}
}

// @Summary List authorization documents
// @Description One page of documents for a TIN, newest first
// @Tags Authorizations
// @Produce json
// @Param tin query string true "TIN"
// @Param page query int false "Page (0-based)"
// @Success 200 {array} dto.AuthorizationDocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /authorizations [get]
func (h *AuthorizationHandler) ListDocuments(c *gin.Context) {
	var req dto.ListAuthorizationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	docs, err := h.service.GetDocuments(c.Request.Context(), req.Tin, req.Page)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorizationDocumentListResponse(docs))
}

// @Summary Get an authorization document
// @Tags Authorizations
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param tin query string true "TIN"
// @Param tinType query string false "TIN type"
// @Success 200 {object} dto.AuthorizationDocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /authorizations/{transaction_id} [get]
func (h *AuthorizationHandler) GetDocument(c *gin.Context) {
	var req dto.GetAuthorizationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	doc, err := h.service.GetDocument(c.Request.Context(), c.Param("transaction_id"), req.Tin, req.TinType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorizationDocumentResponse(doc))
}

// @Summary Approve or reject a document
// @Description Approvals obtain an electronic signature before the decision is committed
// @Tags Authorizations
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param request body dto.AuthorizeRequest false "Decision, alternatively passed as query parameters"
// @Success 200 {object} dto.AuthorizationDocumentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Failure 504 {object} ierr.ErrorResponse
// @Router /authorizations/{transaction_id}/authorize [post]
func (h *AuthorizationHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest

	bind := c.ShouldBindQuery
	if c.Request.ContentLength > 0 {
		bind = c.ShouldBindJSON
	}
	if err := bind(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.TransactionID = c.Param("transaction_id")

	doc, err := h.service.Authorize(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthorizationDocumentResponse(doc))
}

// @Summary Compare local documents with the document service
// @Tags Authorizations
// @Produce json
// @Param tin query string true "TIN"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /authorizations/reconcile [get]
func (h *AuthorizationHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.reconciliation.Reconcile(c.Request.Context(), req.Tin)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
