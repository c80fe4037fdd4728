package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postJSON sends payload as a JSON POST to the specified URI and returns the success body.
func (c *ClientImpl) postJSON(ctx context.Context, uri string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	route := c.baseURL.JoinPath(uri)

	query := route.Query()
	query.Set(apiKeyQueryParam, c.apiKey)
	route.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set(contentTypeHeader, jsonContentType)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, newRemoteError(response.StatusCode, data)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrUnexpectedResponseFormat)
	}

	return data, nil
}
