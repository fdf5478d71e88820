package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/services"
)

const dateOnlyFormat = "2006-01-02"

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rs services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rs}
}

type playerIdentityInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

func (in playerIdentityInput) toIdentity() (services.PlayerIdentity, error) {
	dob, err := time.Parse(dateOnlyFormat, in.DateOfBirth)
	if err != nil {
		return services.PlayerIdentity{}, fmt.Errorf("date_of_birth must be in %s format", dateOnlyFormat)
	}
	return services.PlayerIdentity{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: dob,
	}, nil
}

func (h *RosterHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		playerIdentityInput
		Email       string  `json:"email"`
		ShortsColor string  `json:"shorts_color"`
		Notes       *string `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := input.toIdentity()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.AddPlayer(r.Context(), clubID, identity, services.AddPlayerInput{
		Email:       input.Email,
		ShortsColor: models.ShortsColor(input.ShortsColor),
		Notes:       input.Notes,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) FindPlayerByIdentity(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := playerIdentityInput{
		FirstName:   r.URL.Query().Get("first_name"),
		LastName:    r.URL.Query().Get("last_name"),
		DateOfBirth: r.URL.Query().Get("date_of_birth"),
	}
	identity, err := input.toIdentity()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.FindByIdentity(r.Context(), clubID, identity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) ListClubPlayers(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"
	players, err := h.rosterService.ListClubPlayers(r.Context(), clubID, activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Email       *string `json:"email"`
		ShortsColor *string `json:"shorts_color"`
		Notes       *string `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update := services.UpdatePlayerInput{
		Email: input.Email,
		Notes: input.Notes,
	}
	if input.ShortsColor != nil {
		color := models.ShortsColor(*input.ShortsColor)
		update.ShortsColor = &color
	}

	player, err := h.rosterService.UpdatePlayer(r.Context(), playerID, update)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) DeactivatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.DeactivatePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) ReplaceIdentity(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input playerIdentityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := input.toIdentity()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.ReplaceIdentity(r.Context(), playerID, identity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
