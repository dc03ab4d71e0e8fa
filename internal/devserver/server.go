// Package devserver is an in-memory implementation of the parts service,
// used for local development and as the backend in tests.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jacksmith/pcparts/internal/model"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Server serves the parts API over a Store.
type Server struct {
	store       *Store
	log         logrus.FieldLogger
	allowOrigin string
}

// New returns a Server over store. allowOrigin, when set, is echoed in
// CORS headers so a browser front end on that origin can call the API.
func New(store *Store, logger logrus.FieldLogger, allowOrigin string) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{store: store, log: logger, allowOrigin: allowOrigin}
}

// Store returns the backing store.
func (s *Server) Store() *Store {
	return s.store
}

// Router returns the HTTP handler for the API.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	p := r.PathPrefix("/parts").Subrouter()

	p.HandleFunc("", s.listParts).Methods(http.MethodGet)
	p.HandleFunc("", s.createPart).Methods(http.MethodPost)
	p.HandleFunc("/mongo/{key}", s.updateByKey).Methods(http.MethodPut)
	p.HandleFunc("/mongo/{key}", s.deleteByKey).Methods(http.MethodDelete)
	p.HandleFunc("/{id}", s.getPart).Methods(http.MethodGet)
	p.HandleFunc("/{id}", s.updateByID).Methods(http.MethodPut)
	p.HandleFunc("/{id}", s.deleteByID).Methods(http.MethodDelete)

	return s.corsMiddleware(s.logMiddleware(r))
}

// partView is a stored part as the API renders it.
type partView struct {
	model.Part
	Status string `json:"status,omitempty"`
}

func (v partView) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(v.Part)
	if err != nil || v.Status == "" {
		return data, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["status"], _ = json.Marshal(v.Status)
	return json.Marshal(fields)
}

func (s *Server) listParts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.All())
}

func (s *Server) getPart(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.ByID(mux.Vars(r)["id"])
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Part not found")
		return
	}
	view := partView{Part: p}
	if p.Stock == 0 {
		view.Status = "Out of stock"
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) createPart(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	key, err := s.store.Insert(d)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.WithFields(logrus.Fields{"id": d.ID, "key": key}).Info("part created")
	writeJSON(w, http.StatusOK, map[string]string{"inserted_id": key})
}

func (s *Server) updateByKey(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	if err := s.store.UpdateByKey(key, d); err != nil {
		writeDetail(w, http.StatusNotFound, "Part not found")
		return
	}
	s.log.WithField("key", key).Info("part updated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Part updated successfully"})
}

func (s *Server) updateByID(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.store.UpdateByID(id, d); err != nil {
		writeDetail(w, http.StatusNotFound, "Part not found or data unchanged")
		return
	}
	s.log.WithField("id", id).Info("part updated")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Part updated successfully"})
}

func (s *Server) deleteByKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := s.store.DeleteByKey(key); err != nil {
		writeDetail(w, http.StatusNotFound, "Part not found")
		return
	}
	s.log.WithField("key", key).Info("part deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Part with Mongo _id '%s' deleted", key)})
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteByID(id); err != nil {
		writeDetail(w, http.StatusNotFound, "Part not found")
		return
	}
	s.log.WithField("id", id).Info("part deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Part with id '%s' deleted", id)})
}

// fieldIssue is one entry of a 422 "detail" list.
type fieldIssue struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
}

// decodeDraft reads and validates a part body. On failure it writes the
// 422 response itself and returns false.
func decodeDraft(w http.ResponseWriter, r *http.Request) (model.Draft, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeIssues(w, []fieldIssue{{Type: "json_invalid", Loc: []any{"body", 0}, Msg: "JSON decode error"}})
		return model.Draft{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		writeIssues(w, []fieldIssue{{Type: "json_invalid", Loc: []any{"body", 0}, Msg: "JSON decode error"}})
		return model.Draft{}, false
	}

	var d model.Draft
	var issues []fieldIssue
	for _, name := range []string{"id", "name", "brand"} {
		v, issue := stringField(fields, name)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		switch name {
		case "id":
			d.ID = v
		case "name":
			d.Name = v
		case "brand":
			d.Brand = v
		}
	}
	if raw, ok := fields["description"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &d.Description); err != nil {
			issues = append(issues, fieldIssue{Type: "string_type", Loc: []any{"body", "description"}, Msg: "Input should be a valid string"})
		}
	}

	price, issue := numberField(fields, "price")
	if issue != nil {
		issues = append(issues, *issue)
	} else if price.IsNegative() {
		issues = append(issues, fieldIssue{Type: "greater_than_equal", Loc: []any{"body", "price"}, Msg: "Input should be greater than or equal to 0"})
	} else {
		d.Price = price
	}

	stock, issue := numberField(fields, "stock")
	switch {
	case issue != nil:
		issues = append(issues, *issue)
	case !stock.IsInteger():
		issues = append(issues, fieldIssue{Type: "int_from_float", Loc: []any{"body", "stock"}, Msg: "Input should be a valid integer, got a number with a fractional part"})
	case stock.IsNegative():
		issues = append(issues, fieldIssue{Type: "greater_than_equal", Loc: []any{"body", "stock"}, Msg: "Input should be greater than or equal to 0"})
	default:
		d.Stock = int(stock.IntPart())
	}

	if len(issues) > 0 {
		writeIssues(w, issues)
		return model.Draft{}, false
	}
	return d, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, *fieldIssue) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", &fieldIssue{Type: "missing", Loc: []any{"body", name}, Msg: "Field required"}
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &fieldIssue{Type: "string_type", Loc: []any{"body", name}, Msg: "Input should be a valid string"}
	}
	return v, nil
}

// numberField accepts JSON numbers and numeric strings.
func numberField(fields map[string]json.RawMessage, name string) (decimal.Decimal, *fieldIssue) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return decimal.Zero, &fieldIssue{Type: "missing", Loc: []any{"body", name}, Msg: "Field required"}
	}
	var n decimal.Decimal
	if err := n.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, &fieldIssue{Type: "number_type", Loc: []any{"body", name}, Msg: "Input should be a valid number"}
	}
	return n, nil
}

func writeIssues(w http.ResponseWriter, issues []fieldIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}

func writeDetail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func (s *Server) logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"requestId":  r.Header.Get("X-Request-ID"),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}

// corsMiddleware lets a browser front end on allowOrigin call the API.
func (s *Server) corsMiddleware(h http.Handler) http.Handler {
	if s.allowOrigin == "" {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins:   []string{s.allowOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(h)
}
