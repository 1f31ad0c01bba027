package domain

import (
	"context"
	"errors"
	"io"

	"github.com/weehong/resetrix-invoice/pkg/db/pagination"
)

type ListDocumentsRequest struct {
	pagination.Pagination

	Status        *DocumentStatus
	InvoiceNumber *string
}

type ListDocumentsResponse struct {
	Documents []InvoiceDocument    `json:"documents"`
	PageInfo  *pagination.PageInfo `json:"pageInfo,omitempty"`
}

// Service owns draft persistence and the edit -> derive -> finalize flow.
// Every write re-runs the assembly pipeline on the submitted record; stored
// derived fields are never patched incrementally.
type Service interface {
	CreateDraft(ctx context.Context, record Invoice) (InvoiceDocument, error)
	GetDocument(ctx context.Context, id string) (InvoiceDocument, error)
	ListDocuments(ctx context.Context, req ListDocumentsRequest) (ListDocumentsResponse, error)
	UpdateDraft(ctx context.Context, id string, record Invoice) (InvoiceDocument, error)
	DeleteDraft(ctx context.Context, id string) error
	Finalize(ctx context.Context, id string) (InvoiceDocument, error)
	RenderPDF(ctx context.Context, id string) (io.Reader, error)
}

var (
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrNotDraft         = errors.New("invoice_not_draft")
	ErrNotFinalized     = errors.New("invoice_not_finalized")
)
