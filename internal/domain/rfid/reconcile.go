package rfid

import "sort"

// ExpectedLine línea del documento de referencia (factura o nota de importación).
type ExpectedLine struct {
	ProductID   string
	ProductName string
	Size        string
	Quantity    int
}

// ScannedTag etiqueta leída con su producto asignado (vacío si no tiene).
type ScannedTag struct {
	EPC         string
	ProductID   string
	ProductName string
}

// ProductCount conteo por producto.
type ProductCount struct {
	ProductID   string
	ProductName string
	Expected    int
	Scanned     int
	Count       int // cantidad que aporta a la lista (matched, missing o extra)
	EPCs        []string
}

// Reconciliation resultado de comparar etiquetas leídas contra un documento.
type Reconciliation struct {
	Matched        []ProductCount
	Missing        []ProductCount
	Extra          []ProductCount
	UnassignedEPCs []string
	Complete       bool
}

// Reconcile compara a nivel de producto: las cantidades esperadas se suman entre tallas
// y cada EPC distinto cuenta como una unidad. Las etiquetas sin producto van a UnassignedEPCs
// y también impiden que el resultado sea completo.
func Reconcile(expected []ExpectedLine, scanned []ScannedTag) Reconciliation {
	type acc struct {
		name     string
		expected int
		scanned  int
		epcs     []string
	}
	byProduct := make(map[string]*acc)
	var order []string
	get := func(id, name string) *acc {
		a, ok := byProduct[id]
		if !ok {
			a = &acc{name: name}
			byProduct[id] = a
			order = append(order, id)
		}
		if a.name == "" {
			a.name = name
		}
		return a
	}

	for _, l := range expected {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		get(l.ProductID, l.ProductName).expected += l.Quantity
	}

	var res Reconciliation
	seen := make(map[string]bool, len(scanned))
	for _, t := range scanned {
		if t.EPC == "" || seen[t.EPC] {
			continue
		}
		seen[t.EPC] = true
		if t.ProductID == "" {
			res.UnassignedEPCs = append(res.UnassignedEPCs, t.EPC)
			continue
		}
		a := get(t.ProductID, t.ProductName)
		a.scanned++
		a.epcs = append(a.epcs, t.EPC)
	}

	for _, id := range order {
		a := byProduct[id]
		base := ProductCount{ProductID: id, ProductName: a.name, Expected: a.expected, Scanned: a.scanned}
		if m := min(a.expected, a.scanned); m > 0 {
			pc := base
			pc.Count = m
			pc.EPCs = a.epcs[:m]
			res.Matched = append(res.Matched, pc)
		}
		if a.expected > a.scanned {
			pc := base
			pc.Count = a.expected - a.scanned
			res.Missing = append(res.Missing, pc)
		}
		if a.scanned > a.expected {
			pc := base
			pc.Count = a.scanned - a.expected
			pc.EPCs = a.epcs[a.expected:]
			res.Extra = append(res.Extra, pc)
		}
	}
	sort.Strings(res.UnassignedEPCs)
	res.Complete = len(res.Missing) == 0 && len(res.Extra) == 0 && len(res.UnassignedEPCs) == 0
	return res
}
