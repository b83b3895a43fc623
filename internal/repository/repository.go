// Package repository persists the application's documents in CouchDB through
// kivik. Every document carries a "kind" discriminator and a doc ID of the
// form "<kind>:<uuid>"; owner-scoped lists go through Mango selectors.
package repository

import (
	"errors"
	"net/http"

	"github.com/go-kivik/kivik/v4"
)

// ErrNotFound is returned when a document does not exist. Callers must not
// distinguish "absent" from "not owned"; ownership misses map to the same
// error further up.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned when a revision-checked write loses a concurrent
// update race.
var ErrConflict = errors.New("document update conflict")

func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch kivik.HTTPStatus(err) {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return err
}
