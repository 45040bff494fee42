package handlers

import (
	"net/http"
	"runtime"
)

type VersionHandler struct {
	version string
}

type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

func NewVersionHandler(version string) *VersionHandler {
	if version == "" {
		version = "dev"
	}
	return &VersionHandler{version: version}
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.version, GoVersion: runtime.Version()})
}
