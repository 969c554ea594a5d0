// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/utils"
)

const (
	jsonSuffix  = ".json"
	maxBodySize = 16 << 20
)

// get returns the subtree at the requested path, or opens an event stream
// on it when the client accepts text/event-stream.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	path, ok := recordPath(w, r)
	if !ok {
		return
	}

	if isEventStream(r) {
		h.stream(w, r, path)
		return
	}

	raw, err := h.tree.Get(path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteRawJSON(w, raw, http.StatusOK)
}

// put replaces the subtree and echoes the stored value.
func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	path, ok := recordPath(w, r)
	if !ok {
		return
	}

	value, err := readTree(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.tree.Set(r.Context(), path, value); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteRawJSON(w, remote.Encode(value), http.StatusOK)
}

// patch merges the body object into the subtree and echoes the body.
func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	path, ok := recordPath(w, r)
	if !ok {
		return
	}

	value, err := readTree(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields, isObject := value.(map[string]any)
	if !isObject {
		h.writeError(w, r, ErrPatchNotObject)
		return
	}

	if err = h.tree.Update(r.Context(), path, fields); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteRawJSON(w, remote.Encode(fields), http.StatusOK)
}

// post stores the body under a fresh push key and reports the key as
// {"name": key}.
func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	path, ok := recordPath(w, r)
	if !ok {
		return
	}

	value, err := readTree(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	key := utils.PushKey()
	if err = h.tree.Set(r.Context(), remote.JoinPath(path, key), value); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, map[string]string{"name": key}, http.StatusOK)
}

// remove deletes the subtree. Deleting an absent path succeeds.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	path, ok := recordPath(w, r)
	if !ok {
		return
	}

	if err := h.tree.Remove(r.Context(), path); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteRawJSON(w, remote.Null(), http.StatusOK)
}

// recordPath maps "/a/b.json" to "/a/b" and "/.json" to "/". Requests for
// paths without the .json suffix are answered with 404.
func recordPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := r.URL.Path
	if !strings.HasSuffix(p, jsonSuffix) {
		utils.WriteError(w, ErrNotJSONPath.Error(), http.StatusNotFound)
		return "", false
	}

	return remote.NormalizePath(strings.TrimSuffix(p, jsonSuffix)), true
}

func readTree(w http.ResponseWriter, r *http.Request) (any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, ErrInvalidBody
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrInvalidBody
	}

	value, err := remote.Decode(body)
	if err != nil {
		return nil, ErrInvalidBody
	}
	return value, nil
}

func isEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status := statusFromError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = http.StatusText(status)
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}

	utils.WriteError(w, message, status)
}
