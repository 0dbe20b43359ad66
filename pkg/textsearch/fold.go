// Package textsearch normaliza texto para búsquedas sin tildes ni mayúsculas.
// Los nombres de productos y clientes llegan con diacríticos (vietnamita, español);
// se persiste una search_key plegada y las búsquedas comparan contra ella.
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ/Đ no se descomponen con NFD.
var specialFolds = strings.NewReplacer("đ", "d", "Đ", "d", "ø", "o", "Ø", "o", "ß", "ss")

// Fold devuelve s en minúsculas, sin marcas diacríticas y con espacios colapsados.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = specialFolds.Replace(out)
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Key construye la search_key de una entidad uniendo sus campos buscables.
func Key(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = Fold(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// Pattern convierte una palabra clave en un patrón LIKE escapado ("%clave%").
// Devuelve "" si la palabra clave queda vacía tras normalizar.
func Pattern(keyword string) string {
	k := Fold(keyword)
	if k == "" {
		return ""
	}
	k = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(k)
	return "%" + k + "%"
}
