package handlers

import (
	"delivery-day-simulator/internal/api/dto"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/ports"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// PackageHandler exposes point-in-time package status of the current day.
type PackageHandler struct {
	Day   *DayState
	Cache ports.ReportCache // optional
}

// List answers GET /packages?at=HH:MM. Without at, the end of the day is used.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res, err := h.Day.Current()
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}

	day := res.State.Fleet.Day
	at := day.End
	if q := strings.TrimSpace(r.URL.Query().Get("at")); q != "" {
		at, err = day.Clock(q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "at must be a time of day like 10:30")
			return
		}
	}

	runID, execID := res.Summary.RunID, res.ExecutionID
	var snaps []domain.PackageSnapshot
	cached := false

	if h.Cache != nil {
		snaps, cached, err = h.Cache.GetStatus(r.Context(), execID, at)
		if err != nil {
			log.Warn().Str("run_id", runID).Err(err).Msg("report cache read failed")
			cached = false
		}
	}
	if !cached {
		snaps = res.StatusAt(at)
		if h.Cache != nil {
			if err := h.Cache.PutStatus(r.Context(), execID, at, snaps); err != nil {
				log.Warn().Str("run_id", runID).Err(err).Msg("report cache write failed")
			}
		}
	}

	out := dto.ListPackagesResponse{
		RunID:      runID,
		At:         at,
		Cached:     cached,
		TotalMiles: res.TotalMileageAt(at),
		Vehicles:   toVehicleMileage(res.MileageAt(at)),
		Packages:   make([]dto.PackageResponse, 0, len(snaps)),
	}
	for _, s := range snaps {
		out.Packages = append(out.Packages, toPackageResponse(s))
	}

	writeJSON(w, r, http.StatusOK, out)
}

func toPackageResponse(s domain.PackageSnapshot) dto.PackageResponse {
	return dto.PackageResponse{
		PackageID:   s.PackageID,
		Location:    s.Location,
		Address:     s.Address,
		City:        s.City,
		Zip:         s.Zip,
		Deadline:    s.Deadline,
		WeightKg:    s.WeightKg,
		Status:      string(s.Status),
		VehicleID:   s.VehicleID,
		DeliveredAt: s.DeliveredAt,
		Late:        s.Late,
	}
}

func toVehicleMileage(miles map[int]float64) []dto.VehicleMileage {
	out := make([]dto.VehicleMileage, 0, len(miles))
	for id, m := range miles {
		out = append(out, dto.VehicleMileage{VehicleID: id, Miles: m})
	}
	slices.SortFunc(out, func(a, b dto.VehicleMileage) int { return a.VehicleID - b.VehicleID })
	return out
}
