package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/api/middleware"
	"github.com/jasperlim/tracelink-backend/api/responses"
	"github.com/jasperlim/tracelink-backend/api/validators"
	"github.com/jasperlim/tracelink-backend/internal/receiving"
	pkgerrors "github.com/jasperlim/tracelink-backend/pkg/errors"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
)

// WarehouseReceiveMaster accepts scanned master codes and runs the receiving
// pipeline. The response body is the flat scanner wire shape, not the generic
// data envelope.
func WarehouseReceiveMaster(svc *receiving.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeReceiveFailure(w, pkgerrors.New(pkgerrors.CodeInternal, "receiving service unavailable"))
			return
		}

		var body receiving.ReceiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeReceiveFailure(w, err)
			return
		}

		if len(body.Codes()) == 0 {
			writeReceiveFailure(w, pkgerrors.New(pkgerrors.CodeValidation, "master_code is required"))
			return
		}

		resp := svc.Receive(r.Context(), body, authenticatedUserID(r))
		responses.WriteJSONStatus(w, resp.HTTPStatus, resp)
	}
}

// writeReceiveFailure keeps the receiving route's failure bodies flat
// ({message}) so scanner firmware never sees the platform error envelope.
func writeReceiveFailure(w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	if m := typed.Message(); m != "" && meta.HTTPStatus < http.StatusInternalServerError {
		msg = m
	}
	responses.WriteMessage(w, meta.HTTPStatus, msg)
}

// WarehouseReceivingStatus reports receiving job health for diagnostics.
func WarehouseReceivingStatus(svc *receiving.StatusService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "status service unavailable"))
			return
		}

		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receiving jobs"))
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func authenticatedUserID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
