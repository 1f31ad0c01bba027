// Package pdf renders a layout block sequence to a PDF document. It is the
// concrete "external renderer" collaborator: pagination, fonts and byte
// output happen here, never in the layout engine.
package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/weehong/resetrix-invoice/internal/invoice/layout"
	"go.uber.org/fx"
)

// Provider renders an invoice layout into a document stream.
type Provider interface {
	GenerateInvoice(ctx context.Context, doc layout.Document) (io.Reader, error)
}

// NoOpProvider satisfies Provider where PDF output is not wired (tests,
// headless deployments).
type NoOpProvider struct{}

func (NoOpProvider) GenerateInvoice(ctx context.Context, doc layout.Document) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
