package handlers

import (
	"net/http"
	"time"

	"github.com/footyops/carnival-system/middleware"
	"github.com/footyops/carnival-system/services"
)

type CarnivalHandler struct {
	carnivalService services.CarnivalService
	claimService    services.ClaimService
}

func NewCarnivalHandler(cs services.CarnivalService, claims services.ClaimService) *CarnivalHandler {
	return &CarnivalHandler{
		carnivalService: cs,
		claimService:    claims,
	}
}

func (h *CarnivalHandler) CreateCarnival(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Title               string     `json:"title"`
		Subtitle            *string    `json:"subtitle"`
		ContactEmail        *string    `json:"contact_email"`
		AddressLine1        *string    `json:"address_line1"`
		AddressLine2        *string    `json:"address_line2"`
		Suburb              *string    `json:"suburb"`
		State               *string    `json:"state"`
		TeamRegistrationFee float64    `json:"team_registration_fee"`
		PerPlayerFee        float64    `json:"per_player_fee"`
		StartDate           *time.Time `json:"start_date"`
		EndDate             *time.Time `json:"end_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	carnival, err := h.carnivalService.CreateCarnival(r.Context(), currentUserID, services.CreateCarnivalInput{
		Title:               input.Title,
		Subtitle:            input.Subtitle,
		ContactEmail:        input.ContactEmail,
		AddressLine1:        input.AddressLine1,
		AddressLine2:        input.AddressLine2,
		Suburb:              input.Suburb,
		State:               input.State,
		TeamRegistrationFee: input.TeamRegistrationFee,
		PerPlayerFee:        input.PerPlayerFee,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"carnival": carnival}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) GetCarnivalByID(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	carnival, err := h.carnivalService.GetCarnivalByID(r.Context(), carnivalID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnival": carnival}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) ListCarnivals(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	carnivals, err := h.carnivalService.ListCarnivals(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnivals": carnivals}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) ListUnclaimedCarnivals(w http.ResponseWriter, r *http.Request) {
	carnivals, err := h.carnivalService.ListUnclaimedCarnivals(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnivals": carnivals}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) EditCarnival(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Title                          *string    `json:"title"`
		Subtitle                       *string    `json:"subtitle"`
		ContactEmail                   *string    `json:"contact_email"`
		AddressLine1                   *string    `json:"address_line1"`
		AddressLine2                   *string    `json:"address_line2"`
		Suburb                         *string    `json:"suburb"`
		State                          *string    `json:"state"`
		TeamRegistrationFee            *float64   `json:"team_registration_fee"`
		PerPlayerFee                   *float64   `json:"per_player_fee"`
		StartDate                      *time.Time `json:"start_date"`
		EndDate                        *time.Time `json:"end_date"`
		OriginalMySidelineContactEmail *string    `json:"original_mysideline_contact_email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	carnival, err := h.carnivalService.EditCarnival(r.Context(), carnivalID, services.CarnivalPatch{
		Title:                          input.Title,
		Subtitle:                       input.Subtitle,
		ContactEmail:                   input.ContactEmail,
		AddressLine1:                   input.AddressLine1,
		AddressLine2:                   input.AddressLine2,
		Suburb:                         input.Suburb,
		State:                          input.State,
		TeamRegistrationFee:            input.TeamRegistrationFee,
		PerPlayerFee:                   input.PerPlayerFee,
		StartDate:                      input.StartDate,
		EndDate:                        input.EndDate,
		OriginalMySidelineContactEmail: input.OriginalMySidelineContactEmail,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnival": carnival}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUploadBytes)
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	carnival, err := h.carnivalService.UploadLogo(r.Context(), carnivalID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnival": carnival}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CarnivalHandler) ClaimCarnival(w http.ResponseWriter, r *http.Request) {
	carnivalID, err := getIDFromURL(r, "carnivalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		ContactEmail *string `json:"contact_email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	carnival, err := h.claimService.Claim(r.Context(), carnivalID, currentUserID, input.ContactEmail)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"carnival": carnival}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
