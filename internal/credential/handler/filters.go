package handler

import (
	"net/http"

	"credvault/internal/credential/models"
	"credvault/internal/credential/store"
)

// parseFilter reads the optional ?status= query parameter.
func parseFilter(r *http.Request) (store.Filter, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return store.Filter{}, nil
	}
	st, err := models.ParseStatus(raw)
	if err != nil {
		return store.Filter{}, err
	}
	return store.Filter{Status: st}, nil
}
