// Package compat - HTTP client for a remote validation service
package compat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pc-builder/core/catalog"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
)

// WireRequest builds the validation request body: every slot key mapped
// to its chosen item id, or null when the slot is empty. Empty slots
// are sent on purpose; the service needs the full picture to decide
// which rules can fire.
func WireRequest(sel selection.Selection) map[string]*string {
	req := make(map[string]*string, len(catalog.Categories))
	for _, c := range catalog.Categories {
		if id := sel.Get(c); id != "" {
			v := id
			req[c.SlotKey()] = &v
		} else {
			req[c.SlotKey()] = nil
		}
	}
	return req
}

// SelectionFromWire converts a validation request body back to a
// selection, ignoring unknown slot keys.
func SelectionFromWire(req map[string]*string) selection.Selection {
	sel := selection.New()
	for key, id := range req {
		c, ok := catalog.FromSlotKey(key)
		if !ok || id == nil || *id == "" {
			continue
		}
		sel[c] = *id
	}
	return sel
}

// ServiceValidator calls a remote compatibility validation service over
// HTTP. It implements Validator.
type ServiceValidator struct {
	url    string
	client *http.Client
}

// NewServiceValidator creates a client for the given endpoint URL.
func NewServiceValidator(url string, timeout time.Duration) *ServiceValidator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServiceValidator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Validate posts the full selection and decodes the verdict. Transport
// and server failures are returned as network errors; the gate maps
// them to the unavailable verdict.
func (s *ServiceValidator) Validate(ctx context.Context, sel selection.Selection) (Verdict, error) {
	body, err := json.Marshal(WireRequest(sel))
	if err != nil {
		return Verdict{}, errors.Internal("encoding validation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, errors.Internal("building validation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Verdict{}, errors.Wrap(errors.TypeNetwork, "calling validation service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Verdict{}, errors.Wrap(errors.TypeNetwork,
			fmt.Sprintf("validation service returned %d", resp.StatusCode), nil)
	}

	var wire VerdictWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Verdict{}, errors.Wrap(errors.TypeNetwork, "decoding validation response", err)
	}
	return FromWire(wire), nil
}
