package usecase

import (
	"strings"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// listFilter normaliza la paginación y arma el filtro del repositorio.
func listFilter(p dto.PageRequest) repository.ListFilter {
	p.DefaultPage()
	return repository.ListFilter{
		Keyword: strings.TrimSpace(p.Keyword),
		Status:  strings.TrimSpace(p.Status),
		Limit:   p.Limit,
		Offset:  p.Offset,
	}
}

func page(f repository.ListFilter, total int) dto.PageResponse {
	return dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total}
}

// isEmail validación mínima de formato (usuario@dominio.tld).
func isEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 1 || at == len(s)-1 || strings.ContainsAny(s, " \t\n") {
		return false
	}
	dot := strings.LastIndex(s[at+1:], ".")
	return dot > 0 && dot < len(s[at+1:])-1
}
