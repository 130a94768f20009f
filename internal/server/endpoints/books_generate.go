package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomehq/tome/internal/api"
	"github.com/tomehq/tome/internal/book"
	"github.com/tomehq/tome/internal/svcctx"
)

// GenerateEndpoint handles POST /api/books/generate.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/books/generate", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate a book
//	@Description	Run the full outline/expand/assemble pipeline for a topic and persist the result. Blocks until the run completes.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			request	body		book.GenerationRequest	true	"Generation request"
//	@Success		200		{object}	book.Result
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/books/generate [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req book.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "generator not initialized")
		return
	}

	result, err := gen.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, book.ErrRunInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "generate <topic...>",
		Short: "Generate a book on a topic",
		Long: `Generate a complete book on a topic.

The server plans a chapter outline, expands every chapter in order, and
stores the assembled markdown document. The command blocks until the run
finishes; use 'tome api books status' from another terminal to watch
progress.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp book.Result
			if err := client.Post(cmd.Context(), "/api/books/generate", book.GenerationRequest{
				Topic:      strings.Join(args, " "),
				TotalPages: pages,
			}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 30, "Target length in printed pages")
	return cmd
}
