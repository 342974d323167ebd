package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ABIVersion is passed to the plugin in its manifest config under
// ConfigABIVersion so plugins can reject a host they do not understand.
const ABIVersion = "1"

// Exported plugin functions.
const (
	FuncGetVersion = "get_version"
	FuncSetVersion = "set_version"
)

// Manifest config keys visible to the plugin.
const (
	ConfigVersionedFile = "versioned_file"
	ConfigABIVersion    = "abi_version"
)

// SetVersionRequest is the input of set_version.
type SetVersionRequest struct {
	Version string `json:"version"`
}

// SetVersionResponse is the optional output of set_version. Plugins that
// return nothing are treated as successful.
type SetVersionResponse struct {
	OK    *bool  `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// decodeSetVersionResponse interprets set_version output. Empty output means
// success; anything else must be a SetVersionResponse.
func decodeSetVersionResponse(out []byte) error {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil
	}

	var resp SetVersionResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return fmt.Errorf("decoding %s response: %w", FuncSetVersion, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("%s reported: %s", FuncSetVersion, resp.Error)
	}
	if resp.OK != nil && !*resp.OK {
		return fmt.Errorf("%s reported failure", FuncSetVersion)
	}
	return nil
}
