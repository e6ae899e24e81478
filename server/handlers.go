package server

import (
	"net/http"
	"strings"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/store"
)

// recommendationsResponse is the envelope of every recommendation endpoint,
// meta is present on listings only
type recommendationsResponse struct {
	Recommendations []wireRecommendation `json:"recommendations"`
	Meta            *metaBlock           `json:"meta,omitempty"`
}

type incomingResponse struct {
	Recommendations []wireIncoming `json:"recommendations"`
	Meta            *metaBlock     `json:"meta,omitempty"`
}

type metaBlock struct {
	Pagination wirePagination `json:"pagination"`
}

// browseHandler lists recommendations with paging, filtering, ordering and
// optional derived counts
func (s *Server) browseHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := parsePage(r, "page", defaultPage)
	if err != nil {
		renderError(w, r, err)
		return
	}
	limit, err := parsePage(r, "limit", defaultLimit)
	if err != nil {
		renderError(w, r, err)
		return
	}
	order, err := parseOrder(r.URL.Query().Get("order"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	var withRelated []string
	if raw := r.URL.Query().Get("withRelated"); raw != "" {
		withRelated = strings.Split(raw, ",")
	}
	include, err := parseInclude(withRelated)
	if err != nil {
		renderError(w, r, err)
		return
	}

	opts := store.Options{
		Filter:  r.URL.Query().Get("filter"),
		Order:   order,
		Page:    page,
		Limit:   limit,
		Include: include,
	}

	recs, err := s.recommendations.ListRecommendations(ctx, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}
	total, err := s.recommendations.CountRecommendations(ctx, opts)
	if err != nil {
		renderError(w, r, err)
		return
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	out := recommendationsResponse{
		Recommendations: make([]wireRecommendation, 0, len(recs)),
		Meta:            &metaBlock{Pagination: toWirePagination(service.Pagination{Page: page, Limit: limit, Pages: pages, Total: total})},
	}
	for _, rec := range recs {
		out.Recommendations = append(out.Recommendations, toWire(rec))
	}
	renderJSON(w, r, http.StatusOK, out)
}

// readHandler returns a single recommendation by id
func (s *Server) readHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recommendations.ReadRecommendation(r.Context(), r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, recommendationsResponse{Recommendations: []wireRecommendation{toWire(rec)}})
}

// addHandler creates a recommendation from the request body
func (s *Server) addHandler(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	input, err := parseAddBody(body)
	if err != nil {
		renderError(w, r, err)
		return
	}

	rec, err := s.recommendations.AddRecommendation(r.Context(), input)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusCreated, recommendationsResponse{Recommendations: []wireRecommendation{toWire(rec)}})
}

// editHandler applies a partial update to a recommendation
func (s *Server) editHandler(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	patch, err := parseEditBody(body)
	if err != nil {
		renderError(w, r, err)
		return
	}

	rec, err := s.recommendations.EditRecommendation(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, recommendationsResponse{Recommendations: []wireRecommendation{toWire(rec)}})
}

// deleteHandler removes a recommendation
func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.recommendations.DeleteRecommendation(r.Context(), r.PathValue("id")); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkHandler probes a URL and returns the stored or drafted recommendation
// for it, the endpoint never fails on unreachable targets
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	target, err := parseCheckBody(body)
	if err != nil {
		renderError(w, r, err)
		return
	}

	rec, err := s.recommendations.CheckRecommendation(r.Context(), target)
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, recommendationsResponse{Recommendations: []wireRecommendation{toWire(rec)}})
}

// incomingHandler lists sites recommending us back
func (s *Server) incomingHandler(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, "page", defaultPage)
	if err != nil {
		renderError(w, r, err)
		return
	}
	limit, err := parsePage(r, "limit", defaultLimit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	recs, pagination, err := s.incoming.List(r.Context(), page, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := incomingResponse{
		Recommendations: make([]wireIncoming, 0, len(recs)),
		Meta:            &metaBlock{Pagination: toWirePagination(pagination)},
	}
	for _, rec := range recs {
		out.Recommendations = append(out.Recommendations, toWireIncoming(rec))
	}
	renderJSON(w, r, http.StatusOK, out)
}

// clickedHandler records a click on a recommendation, the member id is
// optional as anonymous visitors click too
func (s *Server) clickedHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseMemberID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := s.recommendations.TrackClicked(r.Context(), r.PathValue("id"), memberID); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// subscribedHandler records a one-click subscribe attributed to a member
func (s *Server) subscribedHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseMemberID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if memberID == nil {
		renderError(w, r, &domain.ValidationError{Message: "Member not found"})
		return
	}
	if err := s.recommendations.TrackSubscribed(r.Context(), r.PathValue("id"), *memberID); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
