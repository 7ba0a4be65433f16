package cmd

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/ismscore/scoreconv/compare"
	"github.com/ismscore/scoreconv/constants"
	"github.com/ismscore/scoreconv/model"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the comparator over HTTP",
	Long:  `Serves the comparator over HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type compareRequest struct {
	Left      *model.Score `json:"left"`
	Right     *model.Score `json:"right"`
	Tolerance float64      `json:"tolerance,omitempty"`
}

type compareResponse struct {
	Pass  bool           `json:"pass"`
	Diffs []compare.Diff `json:"diffs"`
}

func handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Could not unmarshal request body: "+err.Error(), 400)
		return
	}
	if req.Left == nil || req.Right == nil {
		http.Error(w, "Both left and right scores are required", 400)
		return
	}
	for _, s := range []*model.Score{req.Left, req.Right} {
		if err := s.Validate(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
	}

	res := compare.Scores(req.Left, req.Right, req.Tolerance)
	diffs := res.Diffs
	if diffs == nil {
		diffs = make([]compare.Diff, 0)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(compareResponse{Pass: res.Pass(), Diffs: diffs})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/compare", handleCompare).Methods("POST")
	addr := constants.GetListenAddr()
	log.Printf("listening on %v", addr)
	log.Fatal(http.ListenAndServe(addr, cors.Default().Handler(router)))
}
