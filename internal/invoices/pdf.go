package invoices

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Renderer converts an HTML document to PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

var pdfTemplate = template.Must(template.New("pre-invoice").Parse(`<!doctype html>
<html lang="es">
<head><meta charset="utf-8"><title>Prefactura {{.ID}}</title></head>
<body>
  <h1>CQ Trails - Prefactura #{{.ID}}</h1>
  <p>Reservación: {{.ReservationID}}</p>
  <p>Fecha de generación: {{.GeneratedAt.Format "02/01/2006 15:04"}}</p>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><td>Costo del vehículo</td><td>{{printf "$%.2f" .VehicleCost}}</td></tr>
    <tr><td>Costos adicionales</td><td>{{printf "$%.2f" .ExtraCost}}</td></tr>
    <tr><th>Total</th><th>{{printf "$%.2f" .TotalCost}}</th></tr>
  </table>
</body>
</html>`))

// RenderPDF produces the printable copy of a pre-invoice and records its
// filename on the row.
func (s *Service) RenderPDF(ctx context.Context, id int64) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: generación de PDF no disponible", shared.ErrValidation)
	}
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdfTemplate.Execute(&buf, invoice); err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderHTML(ctx, buf.String())
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("prefactura-%d.pdf", invoice.ID)
	invoice.PDFFile = &name
	if err := s.repo.Update(ctx, *invoice); err != nil {
		return nil, err
	}
	return pdf, nil
}
