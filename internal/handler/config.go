package handler

import "net/http"

// ConfigHandler serves GET /v1/config: the non-secret provider discovery
// parameters a client needs to initiate its own login flow. This is the
// one unauthenticated API route, and it speaks JSON because clients call
// it before they can speak the binary format.
type ConfigHandler struct {
	oidcAuthority string
	oidcClientID  string
}

// NewConfigHandler creates a ConfigHandler for the given provider
// parameters.
func NewConfigHandler(oidcAuthority, oidcClientID string) *ConfigHandler {
	return &ConfigHandler{
		oidcAuthority: oidcAuthority,
		oidcClientID:  oidcClientID,
	}
}

// HandleGet handles GET /v1/config.
func (h *ConfigHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"oidc_authority": h.oidcAuthority,
		"oidc_client_id": h.oidcClientID,
	})
}
