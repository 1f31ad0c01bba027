package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/weehong/resetrix-invoice/internal/config"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
	"github.com/weehong/resetrix-invoice/internal/invoice/format"
	"github.com/weehong/resetrix-invoice/internal/invoice/layout"
	"github.com/weehong/resetrix-invoice/internal/invoice/pipeline"
	"github.com/weehong/resetrix-invoice/internal/providers/pdf"
	"github.com/weehong/resetrix-invoice/pkg/db/option"
	"github.com/weehong/resetrix-invoice/pkg/db/pagination"
	"github.com/weehong/resetrix-invoice/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParams struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node
	Log   *zap.Logger
	PDF   pdf.Provider
}

type service struct {
	cfg   config.Config
	store repository.Repository[domain.InvoiceDocument]
	genID *snowflake.Node
	log   *zap.Logger
	pdf   pdf.Provider
}

func New(p ServiceParams) domain.Service {
	return &service{
		cfg:   p.Cfg,
		store: repository.ProvideStore[domain.InvoiceDocument](p.DB),
		genID: p.GenID,
		log:   p.Log.Named("invoice.service"),
		pdf:   p.PDF,
	}
}

// CreateDraft assigns an invoice number when the draft carries none, runs the
// full derivation pipeline and persists the resulting record. An
// over-allocated schedule is stored as-is; only finalize rejects it.
func (s *service) CreateDraft(ctx context.Context, record domain.Invoice) (domain.InvoiceDocument, error) {
	if strings.TrimSpace(record.InvoiceNumber) == "" {
		number, err := s.nextInvoiceNumber(ctx)
		if err != nil {
			return domain.InvoiceDocument{}, err
		}
		record.InvoiceNumber = number
	}
	if strings.TrimSpace(record.InvoiceDate) == "" {
		record.InvoiceDate = time.Now().UTC().Format("2006-01-02")
	}

	res, err := pipeline.Run(record)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	doc, err := s.encode(s.genID.Generate(), res, domain.DocumentStatusDraft)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	if err := s.store.Create(ctx, &doc); err != nil {
		return domain.InvoiceDocument{}, err
	}

	s.log.Info("draft created",
		zap.String("invoice_id", doc.ID.String()),
		zap.String("invoice_number", doc.InvoiceNumber),
	)
	return doc, nil
}

func (s *service) GetDocument(ctx context.Context, id string) (domain.InvoiceDocument, error) {
	return s.fetch(ctx, id)
}

func (s *service) ListDocuments(ctx context.Context, req domain.ListDocumentsRequest) (domain.ListDocumentsResponse, error) {
	filter := domain.InvoiceDocument{}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	size := req.PageSize
	if size <= 0 {
		size = 10
	}

	opts := []option.QueryOption{
		option.WithOrder("id DESC"),
		option.WithLimit(size + 1),
	}
	if req.InvoiceNumber != nil && strings.TrimSpace(*req.InvoiceNumber) != "" {
		opts = append(opts, option.WithCondition("invoice_number = ?", strings.TrimSpace(*req.InvoiceNumber)))
	}
	if strings.TrimSpace(req.PageToken) != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListDocumentsResponse{}, domain.ErrInvalidInvoiceID
		}
		before, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return domain.ListDocumentsResponse{}, domain.ErrInvalidInvoiceID
		}
		opts = append(opts, option.WithCondition("id < ?", before))
	}

	rows, err := s.store.Find(ctx, &filter, opts...)
	if err != nil {
		return domain.ListDocumentsResponse{}, err
	}

	rows, pageInfo := pagination.BuildCursorPageInfo(rows, size, func(d *domain.InvoiceDocument) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: d.ID.String()})
		return token
	})

	documents := make([]domain.InvoiceDocument, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, *row)
	}
	return domain.ListDocumentsResponse{Documents: documents, PageInfo: pageInfo}, nil
}

// UpdateDraft re-runs the pipeline on the submitted record and replaces the
// stored payload wholesale. Finalized documents are immutable.
func (s *service) UpdateDraft(ctx context.Context, id string, record domain.Invoice) (domain.InvoiceDocument, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return domain.InvoiceDocument{}, domain.ErrNotDraft
	}

	res, err := pipeline.Run(record)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	updated, err := s.encode(doc.ID, res, domain.DocumentStatusDraft)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	updated.CreatedAt = doc.CreatedAt

	patch := map[string]any{
		"invoice_number": updated.InvoiceNumber,
		"currency":       updated.Currency,
		"total_amount":   updated.TotalAmount,
		"schedule_valid": updated.ScheduleValid,
		"payload":        updated.Payload,
		"updated_at":     time.Now().UTC(),
	}
	if err := s.store.Update(ctx, doc.ID.String(), patch); err != nil {
		return domain.InvoiceDocument{}, err
	}
	return updated, nil
}

func (s *service) DeleteDraft(ctx context.Context, id string) error {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return domain.ErrNotDraft
	}
	return s.store.Delete(ctx, doc.ID.String())
}

// Finalize re-derives the stored draft one last time and flips its status.
// An over-allocated schedule surfaces here as pipeline.ErrScheduleOverAllocated.
func (s *service) Finalize(ctx context.Context, id string) (domain.InvoiceDocument, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return domain.InvoiceDocument{}, domain.ErrNotDraft
	}

	record, err := doc.Record()
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	res, err := pipeline.Run(record)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	final, err := pipeline.Finalize(res)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	payload, err := json.Marshal(final)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	now := time.Now().UTC()
	patch := map[string]any{
		"status":         domain.DocumentStatusFinalized,
		"payload":        datatypes.JSON(payload),
		"total_amount":   final.Total,
		"schedule_valid": true,
		"finalized_at":   now,
		"updated_at":     now,
	}
	if err := s.store.Update(ctx, doc.ID.String(), patch); err != nil {
		return domain.InvoiceDocument{}, err
	}

	s.log.Info("invoice finalized",
		zap.String("invoice_id", doc.ID.String()),
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.Float64("total", final.Total),
	)
	return s.fetch(ctx, doc.ID.String())
}

func (s *service) RenderPDF(ctx context.Context, id string) (io.Reader, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocumentStatusFinalized {
		return nil, domain.ErrNotFinalized
	}

	record, err := doc.Record()
	if err != nil {
		return nil, err
	}
	if record.Company.Logo == "" && s.cfg.CompanyLogoPath != "" {
		record.Company.Logo = s.cfg.CompanyLogoPath
	}

	return s.pdf.GenerateInvoice(ctx, layout.Build(record))
}

func (s *service) fetch(ctx context.Context, id string) (domain.InvoiceDocument, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.InvoiceDocument{}, domain.ErrInvalidInvoiceID
	}

	doc, err := s.store.FindOne(ctx, &domain.InvoiceDocument{ID: parsed})
	if err != nil {
		return domain.InvoiceDocument{}, err
	}
	if doc == nil {
		return domain.InvoiceDocument{}, domain.ErrInvoiceNotFound
	}
	return *doc, nil
}

func (s *service) nextInvoiceNumber(ctx context.Context) (string, error) {
	count, err := s.store.Count(ctx, &domain.InvoiceDocument{})
	if err != nil {
		return "", err
	}

	template := s.cfg.InvoiceNumberTemplate
	if strings.TrimSpace(template) == "" {
		template = format.DefaultNumberTemplate
	}
	return format.InvoiceNumber(template, time.Now().UTC(), count+1)
}

func (s *service) encode(id snowflake.ID, res pipeline.Result, status domain.DocumentStatus) (domain.InvoiceDocument, error) {
	payload, err := json.Marshal(res.Record)
	if err != nil {
		return domain.InvoiceDocument{}, err
	}

	now := time.Now().UTC()
	return domain.InvoiceDocument{
		ID:            id,
		InvoiceNumber: res.Record.InvoiceNumber,
		Status:        status,
		Currency:      res.Record.Currency,
		TotalAmount:   res.Record.Total,
		ScheduleValid: res.ScheduleValid,
		Payload:       datatypes.JSON(payload),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
