// Package relay forwards browser-side Cleveland lookups through the
// gateway's own origin. It is a pure passthrough with status-code
// preservation: no normalization happens here, and upstream error bodies
// are replaced with a generic message rather than leaked verbatim.
package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"musegate/internal/museum"
)

var relayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "musegate_relay_requests_total",
	Help: "Total number of relay requests",
}, []string{"endpoint", "code"})

type Handler struct {
	Log     *logrus.Logger
	Client  *museum.Client
	BaseURL string // Cleveland open-access API root
}

func New(client *museum.Client, baseURL string, log *logrus.Logger) *Handler {
	return &Handler{Log: log, Client: client, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Artifact handles GET /relay/artifact?id=<string>.
func (h *Handler) Artifact(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "Missing artifact ID")
		relayRequestsTotal.WithLabelValues("artifact", "400").Inc()
		return
	}

	endpoint := h.BaseURL + "/api/artworks/" + url.PathEscape(id)
	h.forward(w, r, "artifact", endpoint, "Failed to fetch artifact")
}

// ArtistSearch handles GET /relay/artistSearch?artist=<string>&page=<int>&limit=<int>.
func (h *Handler) ArtistSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	artist := q.Get("artist")
	if artist == "" {
		writeErr(w, http.StatusBadRequest, "Missing artist query")
		relayRequestsTotal.WithLabelValues("artistSearch", "400").Inc()
		return
	}
	page := atoiDefault(q.Get("page"), 1)
	limit := atoiDefault(q.Get("limit"), 20)
	if page < 1 {
		page = 1
	}

	skip := (page - 1) * limit
	endpoint := fmt.Sprintf("%s/api/artworks?limit=%d&skip=%d&has_image=1&q=%s",
		h.BaseURL, limit, skip, url.QueryEscape(artist))
	h.forward(w, r, "artistSearch", endpoint, "Failed to fetch artist artifacts")
}

// forward proxies one upstream GET, relaying the body on 2xx and the bare
// status with a generic body otherwise.
func (h *Handler) forward(w http.ResponseWriter, r *http.Request, op, upstreamURL, failMsg string) {
	data, code, err := h.Client.GetJSON(r.Context(), upstreamURL)
	if err != nil {
		h.Log.WithError(err).WithField("url", upstreamURL).Error("relay.upstream_failed")
		writeErr(w, http.StatusInternalServerError, "Internal Server Error")
		relayRequestsTotal.WithLabelValues(op, "500").Inc()
		return
	}
	if code < 200 || code > 299 {
		writeErr(w, code, failMsg)
		relayRequestsTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	relayRequestsTotal.WithLabelValues(op, "200").Inc()
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
