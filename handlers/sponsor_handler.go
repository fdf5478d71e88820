package handlers

import (
	"net/http"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/services"
)

type SponsorHandler struct {
	sponsorService services.SponsorService
}

func NewSponsorHandler(ss services.SponsorService) *SponsorHandler {
	return &SponsorHandler{sponsorService: ss}
}

func (h *SponsorHandler) AddSponsor(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		SponsorName string `json:"sponsor_name"`
		State       string `json:"state"`
		Location    string `json:"location"`
		Level       string `json:"sponsorship_level"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sponsor, err := h.sponsorService.AddSponsor(r.Context(), clubID, services.AddSponsorInput{
		SponsorName: input.SponsorName,
		State:       input.State,
		Location:    input.Location,
		Level:       models.SponsorshipLevel(input.Level),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"sponsor": sponsor}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SponsorHandler) ListClubSponsors(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sponsors, err := h.sponsorService.ListClubSponsors(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sponsors": sponsors}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SponsorHandler) UpdateSponsorLevel(w http.ResponseWriter, r *http.Request) {
	sponsorID, err := getIDFromURL(r, "sponsorID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Level string `json:"sponsorship_level"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sponsorService.UpdateSponsorLevel(r.Context(), sponsorID, models.SponsorshipLevel(input.Level)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SponsorHandler) DeleteSponsor(w http.ResponseWriter, r *http.Request) {
	sponsorID, err := getIDFromURL(r, "sponsorID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sponsorService.DeleteSponsor(r.Context(), sponsorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
