package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation 23503: la fila sigue referenciada (o la referencia no existe).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// isCheckViolation 23514 (p. ej. quantity >= 0).
func isCheckViolation(err error) bool {
	return pgCode(err) == "23514"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

// isUUID evita mandar a Postgres un id mal formado (fallaría el cast a uuid).
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// where arma condiciones con placeholders numerados; "?" se reemplaza por $n.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// keyword agrega la búsqueda por search_key (o la expresión dada) si hay palabra clave.
func (w *where) keyword(column, keyword string) {
	if p := textsearch.Pattern(keyword); p != "" {
		w.add(column+" LIKE ?", p)
	}
}

// uuid filtra por igualdad en una columna uuid; un valor mal formado no coincide con nada.
func (w *where) uuid(column, value string) {
	if value == "" {
		return
	}
	if !isUUID(value) {
		w.conds = append(w.conds, "FALSE")
		return
	}
	w.add(column+" = ?", value)
}

// dates filtra column dentro de [From, To].
func (w *where) dates(column string, f repository.ListFilter) {
	if f.From != nil {
		w.add(column+" >= ?", *f.From)
	}
	if f.To != nil {
		w.add(column+" <= ?", *f.To)
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page devuelve LIMIT/OFFSET con sus argumentos. Limit <= 0 = sin límite.
func (w *where) page(f repository.ListFilter) (string, []interface{}) {
	args := append([]interface{}(nil), w.args...)
	if f.Limit <= 0 {
		return "", args
	}
	args = append(args, f.Limit, f.Offset)
	n := len(args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n), args
}
