package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/ports"
	"rnlink/internal/shared"
)

const DefaultRegistryURL = "https://registry.npmjs.org"

// The abbreviated metadata document omits readmes and per-version scripts.
const abbreviatedMetadata = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

type NpmRegistryAdapter struct {
	BaseURL string
	client  *http.Client
	retry   httpRetryConfig
}

func NewNpmRegistryAdapter(baseURL string, timeoutSec int, retries int, delayMs int) NpmRegistryAdapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultRegistryURL
	}
	cfg := normalizeHTTPConfig(timeoutSec, retries, delayMs)
	return NpmRegistryAdapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: cfg.timeout},
		retry:   cfg,
	}
}

type registryDocument struct {
	Name     string                     `json:"name"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// Versions returns every published version of name in lexical order.
func (a NpmRegistryAdapter) Versions(ctx context.Context, name string) ([]string, error) {
	endpoint := a.BaseURL + "/" + escapePackageName(name)
	resp, err := doRequest(ctx, a.client, endpoint, map[string]string{"Accept": abbreviatedMetadata}, a.retry)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package " + name + " not found in registry")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry request failed").
			WithCause(shared.HTTPStatusError(resp.StatusCode, endpoint))
	}
	var doc registryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode registry response").
			WithCause(err)
	}
	return shared.SortedKeys(doc.Versions), nil
}

// escapePackageName keeps the scope separator readable the way the npm
// client sends it: "@scope/name" becomes "@scope%2Fname".
func escapePackageName(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@" + url.PathEscape(name[1:])
	}
	return url.PathEscape(name)
}

var _ ports.RegistryPort = NpmRegistryAdapter{}
