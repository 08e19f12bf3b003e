package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egi-ims/document-service/internal/audit"
	"github.com/egi-ims/document-service/internal/document"
	"github.com/egi-ims/document-service/internal/document/service"
	"github.com/egi-ims/document-service/internal/identity"
	"github.com/egi-ims/document-service/pkg/logger"
	"github.com/egi-ims/document-service/pkg/metrics"
	"github.com/egi-ims/document-service/pkg/middleware"
)

// StubHeader selects a test stub upstream; it is only recorded here.
const StubHeader = "X-Test-Stub"

const auditTimeout = 5 * time.Second

// errorResponse is the body of every failed /docs call.
type errorResponse struct {
	Code    document.Code `json:"code"`
	Message string        `json:"message"`
	Details string        `json:"details,omitempty"`
}

type documentHandler struct {
	svc         service.Service
	trail       audit.Repository
	processName string
}

// RegisterDocumentRoutes mounts POST /docs. trail may be nil.
func RegisterDocumentRoutes(r gin.IRoutes, svc service.Service, trail audit.Repository, processName string) {
	h := &documentHandler{svc: svc, trail: trail, processName: processName}
	r.POST("/docs", h.create)
}

func (h *documentHandler) create(c *gin.Context) {
	var doc document.Document
	bindErr := c.ShouldBindJSON(&doc)
	if errors.Is(bindErr, io.EOF) {
		// empty body: let validation name the first missing field
		bindErr = nil
	}

	caller := identity.CallerFromClaims(middleware.Claims(c))
	stub := c.GetHeader(StubHeader)
	if stub == "" {
		stub = "default"
	}
	log := logger.WithFields(logger.Fields{
		"userIdCaller":    caller.ID,
		"userNameCaller":  caller.Name,
		"processName":     h.processName,
		"requestId":       middleware.GetRequestID(c),
		"stub":            stub,
		"docName":         doc.Name,
		"docParentFolder": doc.ParentFolder,
		"docContentSize":  len(doc.Content),
	})
	log.Infof("Creating Google document")

	var (
		info *document.DocumentInfo
		err  error
	)
	if bindErr != nil {
		err = document.WrapActionError(document.CodeBadRequest, bindErr)
	} else {
		ctx := logger.NewContext(c.Request.Context(), log)
		info, err = h.svc.Create(ctx, &doc)
	}

	rec := &audit.Record{
		RequestID:    middleware.GetRequestID(c),
		CallerID:     caller.ID,
		CallerName:   caller.Name,
		Process:      h.processName,
		DocumentName: doc.Name,
		ParentFolder: doc.ParentFolder,
	}

	if err != nil {
		ae := document.AsActionError(err)
		metrics.DocumentFailures.WithLabelValues(string(ae.Code)).Inc()
		if ae.Code == document.CodeTryAgainLater {
			log.Errorf("Document creation failed: %v", err)
		}
		rec.Outcome = string(ae.Code)
		h.record(c.Request.Context(), log, rec)

		resp := errorResponse{Code: ae.Code, Message: ae.Description()}
		if ae.Err != nil {
			resp.Details = ae.Err.Error()
		}
		c.JSON(ae.Status(), resp)
		return
	}

	metrics.DocumentsCreated.Inc()
	rec.Outcome = audit.OutcomeCreated
	rec.DocumentID = info.ID
	h.record(c.Request.Context(), log, rec)
	c.JSON(http.StatusCreated, info)
}

// record stores rec; failures are logged and never change the response.
func (h *documentHandler) record(ctx context.Context, log *logger.Entry, rec *audit.Record) {
	if h.trail == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := h.trail.Save(ctx, rec); err != nil {
		log.Warnf("Cannot record audit entry: %v", err)
	}
}
