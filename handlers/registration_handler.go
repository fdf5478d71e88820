package handlers

import (
	"net/http"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

func (h *RegistrationHandler) RegisterClubAttendance(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ClubID        int `json:"club_id"`
		NumberOfTeams int `json:"number_of_teams"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	attendance, err := h.registrationService.RegisterClubAttendance(r.Context(), carnivalID, input.ClubID, input.NumberOfTeams)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"attendance": attendance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) ListAttendingClubs(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	attendances, err := h.registrationService.ListAttendingClubs(r.Context(), carnivalID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"attendances": attendances}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) CancelAttendance(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := getIDFromURL(r, "attendanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.CancelAttendance(r.Context(), attendanceID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) ChangeNumberOfTeams(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := getIDFromURL(r, "attendanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		NumberOfTeams int `json:"number_of_teams"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.ChangeNumberOfTeams(r.Context(), attendanceID, input.NumberOfTeams); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) ComputeFees(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := getIDFromURL(r, "attendanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fees, err := h.registrationService.ComputeFees(r.Context(), attendanceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fees": fees}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) AssignPlayer(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := getIDFromURL(r, "attendanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ClubPlayerID int  `json:"club_player_id"`
		TeamNumber   *int `json:"team_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignment, err := h.registrationService.AssignPlayer(r.Context(), attendanceID, input.ClubPlayerID, input.TeamNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	attendanceID, err := getIDFromURL(r, "attendanceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments, err := h.registrationService.ListAssignments(r.Context(), attendanceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) ReassignTeam(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := getIDFromURL(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamNumber *int `json:"team_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.ReassignTeam(r.Context(), assignmentID, input.TeamNumber); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) SetAttendanceStatus(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := getIDFromURL(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.SetAttendanceStatus(r.Context(), assignmentID, models.AttendanceStatus(input.Status)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) WithdrawPlayer(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := getIDFromURL(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.WithdrawPlayer(r.Context(), assignmentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := getIDFromURL(r, "assignmentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.registrationService.RemovePlayer(r.Context(), assignmentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
