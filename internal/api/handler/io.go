package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/othello/internal/api/apierr"
	"github.com/mcoot/othello/internal/api/request"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 16 << 10

// decodeBody reads a JSON body into dst and runs its Validate method if it
// has one, writing INVALID_REQUEST and returning false on any failure. An
// empty body is accepted only when optional is set, leaving dst untouched
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		if v, ok := dst.(request.Validator); ok {
			if err := v.Validate(); err != nil {
				writeError(w, apierr.NewInvalidRequestError(err.Error()))
				return false
			}
		}
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, apierr.NewInvalidRequestError("request body too large"))
	} else {
		writeError(w, apierr.NewInvalidRequestError("invalid request body"))
	}
	return false
}

func writeError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}
