package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tomehq/tome/internal/api"
	"github.com/tomehq/tome/internal/book"
	"github.com/tomehq/tome/internal/svcctx"
)

// StatusEndpoint handles GET /api/books/status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Pipeline status
//	@Description	Return the current stage of the generation pipeline
//	@Tags			books
//	@Produce		json
//	@Success		200	{object}	book.Status
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/books/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "generator not initialized")
		return
	}
	writeJSON(w, http.StatusOK, gen.Status())
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show generation pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp book.Status
			if err := client.Get(cmd.Context(), "/api/books/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
