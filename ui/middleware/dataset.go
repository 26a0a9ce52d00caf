package middleware

import (
	"net/http"

	"earlyvote/domain/voting"
)

// DatasetHeader carries the load ID of the workbook a response was built from
const DatasetHeader = "X-Dataset-ID"

// StampDataset tags every response with the loaded dataset's ID so clients can
// tell when the server was restarted on new data.
func StampDataset(ds *voting.Dataset) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if ds == nil {
			return next
		}
		id := ds.ID.String()
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(DatasetHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}
