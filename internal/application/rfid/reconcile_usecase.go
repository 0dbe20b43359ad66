package rfid

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	domrfid "github.com/jhoicas/tienda-rfid-api/internal/domain/rfid"
)

// Documentos contra los que se concilia.
const (
	SourceInvoice    = "invoice"
	SourceImportNote = "import_note"
)

// ReconcileUseCase compara etiquetas leídas contra una factura o nota de importación.
type ReconcileUseCase struct {
	invoiceRepo repository.InvoiceRepository
	noteRepo    repository.ImportNoteRepository
	lookup      TagLookup
	hub         *Hub
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(invoiceRepo repository.InvoiceRepository, noteRepo repository.ImportNoteRepository, lookup TagLookup, hub *Hub) *ReconcileUseCase {
	return &ReconcileUseCase{invoiceRepo: invoiceRepo, noteRepo: noteRepo, lookup: lookup, hub: hub}
}

// Invoice concilia contra las líneas de la factura.
func (uc *ReconcileUseCase) Invoice(ctx context.Context, id string, in dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	expected := make([]domrfid.ExpectedLine, 0, len(inv.Details))
	for _, d := range inv.Details {
		expected = append(expected, domrfid.ExpectedLine{ProductID: d.ProductID, ProductName: d.ProductName, Size: d.Size, Quantity: d.Quantity})
	}
	return uc.run(ctx, SourceInvoice, inv.ID, inv.InvoiceCode, expected, in.EPCs)
}

// ImportNote concilia contra la nota. Si ya se completó se esperan las cantidades recibidas.
func (uc *ReconcileUseCase) ImportNote(ctx context.Context, id string, in dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	expected := make([]domrfid.ExpectedLine, 0, len(note.Details))
	for _, d := range note.Details {
		qty := d.Quantity
		if note.Status == entity.StatusCompleted && d.ReceivedQuantity != nil {
			qty = *d.ReceivedQuantity
		}
		expected = append(expected, domrfid.ExpectedLine{ProductID: d.ProductID, ProductName: d.ProductName, Size: d.Size, Quantity: qty})
	}
	return uc.run(ctx, SourceImportNote, note.ID, note.NoteCode, expected, in.EPCs)
}

// run usa los EPC recibidos o, si no hay, los de la sesión en vivo. La asignación
// se consulta en el registro en ese momento.
func (uc *ReconcileUseCase) run(ctx context.Context, source, id, code string, expected []domrfid.ExpectedLine, raw []string) (*dto.ReconcileResponse, error) {
	var epcs []string
	if len(raw) > 0 {
		for _, r := range raw {
			if c := entity.NormalizeEPC(r); c != "" {
				epcs = append(epcs, c)
			}
		}
		if len(epcs) == 0 {
			return nil, domain.Invalid("no hay epcs válidos")
		}
	} else if uc.hub != nil {
		epcs = uc.hub.EPCs()
	}

	scanned := make([]domrfid.ScannedTag, 0, len(epcs))
	if len(epcs) > 0 {
		found, err := uc.lookup.Lookup(ctx, epcs)
		if err != nil {
			return nil, err
		}
		for _, c := range epcs {
			t := domrfid.ScannedTag{EPC: c}
			if e, ok := found[c]; ok && e.IsAssigned() {
				t.ProductID, t.ProductName = e.ProductID, e.ProductName
			}
			scanned = append(scanned, t)
		}
	}

	res := domrfid.Reconcile(expected, scanned)
	out := &dto.ReconcileResponse{
		Source:         source,
		SourceID:       id,
		SourceCode:     code,
		Matched:        toLines(res.Matched),
		Missing:        toLines(res.Missing),
		Extra:          toLines(res.Extra),
		UnassignedEPCs: res.UnassignedEPCs,
		Complete:       res.Complete,
	}
	if out.UnassignedEPCs == nil {
		out.UnassignedEPCs = []string{}
	}
	return out, nil
}

func toLines(in []domrfid.ProductCount) []dto.ReconcileLineResponse {
	out := make([]dto.ReconcileLineResponse, 0, len(in))
	for _, pc := range in {
		out = append(out, dto.ReconcileLineResponse{
			ProductID:   pc.ProductID,
			ProductName: pc.ProductName,
			Expected:    pc.Expected,
			Scanned:     pc.Scanned,
			Count:       pc.Count,
			EPCs:        pc.EPCs,
		})
	}
	return out
}
