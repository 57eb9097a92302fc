package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jasperlim/tracelink-backend/api/responses"
	"github.com/jasperlim/tracelink-backend/api/validators"
	"github.com/jasperlim/tracelink-backend/internal/movements"
	pkgerrors "github.com/jasperlim/tracelink-backend/pkg/errors"
	"github.com/jasperlim/tracelink-backend/pkg/logger"
)

// WarehouseMovementsExport streams the recent stock movement ledger as xlsx.
func WarehouseMovementsExport(svc *movements.ExportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export service unavailable"))
			return
		}

		orgID, err := validators.ParseQueryUUID(r, "org_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.ParseQueryUUID(r, "variant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", movements.Filename(time.Now())))

		if _, err := svc.Export(r.Context(), w, movements.ExportFilter{
			OrgID:     orgID,
			VariantID: variantID,
			Limit:     limit,
		}); err != nil {
			// Headers are already sent; log and drop the connection.
			if logg != nil {
				logg.Error(r.Context(), "movements export failed", err)
			}
		}
	}
}
