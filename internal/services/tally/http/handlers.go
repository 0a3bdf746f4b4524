// Package http serves the popular search terms
package http

import (
	stdhttp "net/http"

	"bazaar/internal/modkit/httpkit"
	"bazaar/internal/services/tally/domain"
)

// Register mounts the tally endpoints
func Register(r httpkit.Router, p domain.PopularPort) {
	h := &handlers{popular: p}
	httpkit.GetQuery[domain.PopularInput](r, "/popular", h.list)
}

type handlers struct{ popular domain.PopularPort }

// swagger:route GET /search-terms/popular SearchTerms searchTermsPopular
// @Summary Most searched terms for a listing kind
// @Tags Search terms
// @Produce json
// @Param kind query string true "services | local-jobs | used-products"
// @Param limit query int false "1..50, default 10"
// @Success 200 {array} domain.PopularTerm "ok"
// @Router /search-terms/popular [get]
func (h *handlers) list(r *stdhttp.Request, in domain.PopularInput) (any, error) {
	return h.popular.Popular(r.Context(), in)
}
