package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weehong/resetrix-invoice/internal/currency"
	invoicedomain "github.com/weehong/resetrix-invoice/internal/invoice/domain"
	"github.com/weehong/resetrix-invoice/internal/invoice/layout"
	"github.com/weehong/resetrix-invoice/pkg/db/pagination"
)

type listInvoicesQuery struct {
	pagination.Pagination

	Status        string `form:"status"`
	InvoiceNumber string `form:"invoice_number"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query listInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, newValidationError("query", "invalid_query", "invalid query parameters"))
		return
	}

	req := invoicedomain.ListDocumentsRequest{Pagination: query.Pagination}
	if status := strings.TrimSpace(strings.ToUpper(query.Status)); status != "" {
		if status != string(invoicedomain.DocumentStatusDraft) && status != string(invoicedomain.DocumentStatusFinalized) {
			AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
			return
		}
		docStatus := invoicedomain.DocumentStatus(status)
		req.Status = &docStatus
	}
	if number := strings.TrimSpace(query.InvoiceNumber); number != "" {
		req.InvoiceNumber = &number
	}

	resp, err := s.invoiceSvc.ListDocuments(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Documents, "page_info": resp.PageInfo})
}

// GetInvoiceTemplate returns the starter record for a new document.
func (s *Server) GetInvoiceTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": invoicedomain.DefaultDraft()})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var record invoicedomain.Invoice
	if err := c.ShouldBindJSON(&record); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "invalid request body"))
		return
	}

	doc, err := s.invoiceSvc.CreateDraft(c.Request.Context(), record)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	doc, err := s.invoiceSvc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var record invoicedomain.Invoice
	if err := c.ShouldBindJSON(&record); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_body", "invalid request body"))
		return
	}

	doc, err := s.invoiceSvc.UpdateDraft(c.Request.Context(), c.Param("id"), record)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) FinalizeInvoice(c *gin.Context) {
	doc, err := s.invoiceSvc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// GetInvoiceLayout exposes the renderer-agnostic block sequence. Useful for
// HTML previews that mirror what the PDF renderer will paint.
func (s *Server) GetInvoiceLayout(c *gin.Context) {
	doc, err := s.invoiceSvc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := doc.Record()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	layoutDoc := layout.Build(record)
	blocks := make([]gin.H, 0, len(layoutDoc.Blocks))
	for _, block := range layoutDoc.Blocks {
		blocks = append(blocks, gin.H{
			"kind":  block.Kind(),
			"block": block,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"currency": layoutDoc.Currency,
		"blocks":   blocks,
	}})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	reader, err := s.invoiceSvc.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": currency.Supported()})
}
