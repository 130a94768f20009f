package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tomehq/tome/internal/api"
	"github.com/tomehq/tome/internal/store"
	"github.com/tomehq/tome/internal/svcctx"
)

// DocumentEndpoint handles GET /api/books/document.
type DocumentEndpoint struct{}

func (e *DocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/books/document", e.handler
}

func (e *DocumentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Retrieve the generated document
//	@Description	Return the most recently generated book as markdown
//	@Tags			books
//	@Produce		text/markdown
//	@Success		200	{string}	string
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/books/document [get]
func (e *DocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st := svcctx.StoreFrom(r.Context())
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	doc, err := st.LoadDocument(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no document has been generated yet")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, doc)
}

func (e *DocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "document",
		Short: "Print the most recently generated book",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			doc, err := client.GetText(cmd.Context(), "/api/books/document")
			if err != nil {
				return err
			}
			fmt.Print(doc)
			return nil
		},
	}
}
