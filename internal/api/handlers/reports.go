package handlers

import (
	"delivery-day-simulator/internal/api/dto"
	"delivery-day-simulator/internal/services"
	"net/http"
	"slices"
)

// ReportHandler serves the aggregate views of the current day.
type ReportHandler struct {
	Day *DayState
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res, err := h.Day.Current()
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, toSummaryResponse(res))
}

func (h *ReportHandler) Trips(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	res, err := h.Day.Current()
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}

	trips := res.Trips()
	out := dto.ListTripsResponse{RunID: res.Summary.RunID, Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		stops := make([]dto.TripStopResponse, 0, len(t.Stops))
		for _, s := range t.Stops {
			stops = append(stops, dto.TripStopResponse{
				Location:   s.Location,
				ArriveAt:   s.ArriveAt,
				LegMiles:   s.LegMiles,
				PackageIDs: s.PackageIDs,
			})
		}

		out.Trips = append(out.Trips, dto.TripResponse{
			TripID:    t.TripID,
			VehicleID: t.VehicleID,
			DriverID:  t.DriverID,
			DepartAt:  t.DepartAt,
			ReturnAt:  t.ReturnAt,
			Miles:     t.Miles,
			Stops:     stops,
		})
	}

	writeJSON(w, r, http.StatusOK, out)
}

func toSummaryResponse(res *services.DayResult) dto.SummaryResponse {
	sum := res.Summary
	out := dto.SummaryResponse{
		RunID:           sum.RunID,
		StartedAt:       sum.StartedAt,
		FinishedAt:      sum.FinishedAt,
		TotalMiles:      sum.TotalMiles,
		Vehicles:        make([]dto.VehicleSummary, 0, len(sum.TripsPerVehicle)),
		MissedDeadlines: make([]dto.MissedDeadlineResponse, 0, len(sum.MissedDeadlines)),
	}

	ids := make([]int, 0, len(sum.TripsPerVehicle))
	for id := range sum.TripsPerVehicle {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out.Vehicles = append(out.Vehicles, dto.VehicleSummary{
			VehicleID: id,
			Trips:     sum.TripsPerVehicle[id],
			Miles:     sum.MilesPerVehicle[id],
		})
	}

	for _, m := range sum.MissedDeadlines {
		out.MissedDeadlines = append(out.MissedDeadlines, dto.MissedDeadlineResponse{
			PackageID:   m.PackageID,
			VehicleID:   m.VehicleID,
			Deadline:    m.Deadline,
			DeliveredAt: m.DeliveredAt,
		})
	}
	return out
}
