package postgres

import (
	"fmt"
	"strings"

	"docvault/internal/repository"
)

// where accumulates positional parameters and AND-ed predicates.
type where struct {
	clauses []string
	args    []any
}

// param appends arg and renders format with its placeholder index.
func (w *where) param(format string, arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf(format, len(w.args))
}

func (w *where) add(format string, arg any) {
	w.clauses = append(w.clauses, w.param(format, arg))
}

func (w *where) document(f repository.DocumentFilter) {
	if f.ID != "" {
		w.add("id = $%d", f.ID)
	}
	if f.WorkspaceID != "" {
		w.add("workspace_id = $%d", f.WorkspaceID)
	}
	if f.OwnerID != "" {
		w.add("owner_id = $%d", f.OwnerID)
	}
	if f.IsDeleted != nil {
		w.add("is_deleted = $%d", *f.IsDeleted)
	}
	if f.MimeType != "" {
		w.add("mime_type = $%d", f.MimeType)
	}
	if f.Pattern != "" {
		w.add(`(name ILIKE $%[1]d ESCAPE '\' OR mime_type ILIKE $%[1]d ESCAPE '\')`, "%"+escapeLike(f.Pattern)+"%")
	}
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
