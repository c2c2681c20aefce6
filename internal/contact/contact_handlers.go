package contact

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"contactdesk/internal/common"
)

const maxBodyBytes = 1 << 20

type SubmissionHandlers struct {
	svc SubmissionUsecase
}

func NewSubmissionHandlers(svc SubmissionUsecase) *SubmissionHandlers {
	return &SubmissionHandlers{svc: svc}
}

// RegisterRoutes mounts the public form endpoint and the admin endpoints.
// Every /admin route added here goes through requireAuth.
func (h *SubmissionHandlers) RegisterRoutes(r *mux.Router, requireAuth mux.MiddlewareFunc) {
	r.HandleFunc("/contact", h.Submit).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(requireAuth)
	admin.HandleFunc("/submissions", h.List).Methods(http.MethodGet)
	admin.HandleFunc("/submissions/{id}", h.Get).Methods(http.MethodGet)
	admin.HandleFunc("/submissions/{id}", h.Update).Methods(http.MethodPut)
	admin.HandleFunc("/submissions/{id}", h.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/submissions/{id}/read", h.MarkRead).Methods(http.MethodPut)
	admin.HandleFunc("/submissions/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
}

type createResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Submission *Submission `json:"submission"`
}

type submissionResponse struct {
	Message    string      `json:"message,omitempty"`
	Submission *Submission `json:"submission"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *SubmissionHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var in SubmissionInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	sub, err := h.svc.Create(r.Context(), in, requestMeta(r))
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to submit contact form")
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, createResponse{
		Success:    true,
		Message:    "Contact form submitted successfully",
		Submission: sub,
	})
}

func (h *SubmissionHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), ListQuery{
		Page:      atoiOrZero(q.Get("page")),
		PerPage:   atoiOrZero(q.Get("perPage")),
		Search:    q.Get("search"),
		Status:    common.ParseReadFilter(q.Get("status")),
		SortBy:    ParseSortField(q.Get("sortBy")),
		SortOrder: strings.ToLower(q.Get("sortOrder")),
	})
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to fetch submissions")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, page)
}

func (h *SubmissionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to fetch submission")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionResponse{Submission: sub})
}

func (h *SubmissionHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.MarkRead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to mark submission as read")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionResponse{
		Message:    "Submission marked as read",
		Submission: sub,
	})
}

func (h *SubmissionHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	sub, err := h.svc.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to update status")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionResponse{
		Message:    "Status updated successfully",
		Submission: sub,
	})
}

// Update rejects unknown body fields, so id and timestamps cannot be set.
func (h *SubmissionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var upd SubmissionUpdate
	if !decodeBody(w, r, &upd, true) {
		return
	}

	sub, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to update submission")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionResponse{
		Message:    "Submission updated successfully",
		Submission: sub,
	})
}

func (h *SubmissionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to delete submission")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Submission deleted successfully"})
}

func (h *SubmissionHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err, "Failed to fetch statistics")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.CodeBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requestMeta takes the client address from proxy headers only; a direct
// connection is recorded as unknown.
func requestMeta(r *http.Request) RequestMeta {
	ip := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		ip = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}
	return RequestMeta{IPAddress: ip, UserAgent: r.UserAgent()}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
