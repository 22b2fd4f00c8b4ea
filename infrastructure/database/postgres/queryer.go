package postgres

import "database/sql"

// Queryer é o contrato mínimo que os repositórios usam para executar
// statements dentro ou fora de uma transação. *sql.DB e *sql.Tx satisfazem a
// interface, então o mesmo código de escrita serve para os dois casos.
type Queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}
