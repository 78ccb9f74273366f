package handlers

import (
	"net/http"

	"techtree-backend/pkg/common"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/utils"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeBody parses and validates a JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError("invalid request body: " + err.Error())
	}
	return utils.ValidateStruct(v)
}

// meta builds the response envelope metadata.
func meta(r *http.Request, revision uint64, seq *int64) *common.MetaInfo {
	return &common.MetaInfo{
		RequestID: common.ExtractRequestID(r),
		Timestamp: utils.NowRFC3339(),
		Revision:  revision,
		Seq:       seq,
	}
}

// sessionID returns the chat session resolved by the session middleware.
func sessionID(r *http.Request) (string, error) {
	id, ok := common.GetSessionID(r.Context())
	if !ok || id == "" {
		return "", pkgerrors.NewValidationError("chat session is required")
	}
	return id, nil
}
