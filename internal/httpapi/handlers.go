package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tablerank/tablerank"
)

// indexResponse echoes the deployment configuration, mirroring the root
// route of the original service.
type indexResponse struct {
	TableName         string `json:"tableName"`
	AWSRegion         string `json:"awsRegion"`
	MemcachedEndpoint string `json:"memcachedEndpoint"`
	UseCache          bool   `json:"useCache"`
}

func (a *API) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, indexResponse{
		TableName:         a.cfg.TableName,
		AWSRegion:         a.cfg.AWSRegion,
		MemcachedEndpoint: a.cfg.MemcachedEndpoint,
		UseCache:          a.cfg.UseCache,
	})
}

type createRequest struct {
	Name    string   `json:"name"`
	Cuisine string   `json:"cuisine"`
	Region  string   `json:"region"`
	Rating  *float64 `json:"rating"`
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Cuisine == "" || req.Region == "" {
		a.writeFailure(w, http.StatusBadRequest, "name, cuisine and region are required")
		return
	}

	err := a.svc.Create(r.Context(), tablerank.NewRestaurant{
		Name:    req.Name,
		Cuisine: req.Cuisine,
		Region:  req.Region,
		Rating:  req.Rating,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	restaurant, err := a.svc.Get(r.Context(), name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := a.svc.Delete(r.Context(), name); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

type rateRequest struct {
	Name   string   `json:"name"`
	Rating *float64 `json:"rating"`
}

func (a *API) handleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Rating == nil {
		a.writeFailure(w, http.StatusBadRequest, "name and a numeric rating are required")
		return
	}

	if err := a.svc.Rate(r.Context(), req.Name, *req.Rating); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (a *API) handleTopByCuisine(w http.ResponseWriter, r *http.Request) {
	cuisine := mux.Vars(r)["cuisine"]

	restaurants, err := a.svc.TopByCuisine(r.Context(), cuisine, parseLimit(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, restaurants)
}

func (a *API) handleTopByRegion(w http.ResponseWriter, r *http.Request) {
	region := mux.Vars(r)["region"]

	restaurants, err := a.svc.TopByRegion(r.Context(), region, parseLimit(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, restaurants)
}

func (a *API) handleTopByRegionAndCuisine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	restaurants, err := a.svc.TopByRegionAndCuisine(r.Context(), vars["region"], vars["cuisine"], parseLimit(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, restaurants)
}

// parseLimit reads the limit query parameter. Absent or non-numeric values
// return 0, which the service resolves to its default.
func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
