// Package storage provides CSV persistence for the jurisdiction metadata table.
//
// The input table is read once at startup. The output table is rewritten in full
// after every processed jurisdiction, so a run that is interrupted still leaves an
// up-to-date file behind. Writes go to a temporary file in the same directory and
// are renamed into place.
package storage
